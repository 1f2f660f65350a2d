// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/invowk/cargoflow/internal/publish"
	"github.com/invowk/cargoflow/internal/recipe"

	"github.com/spf13/cobra"
)

func newListCommand(app *App, flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List operations, their steps and the release checks",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := app.newSession(cmd.Context(), flags)
			if err != nil {
				return failure(err)
			}
			d, err := newDispatcher(s)
			if err != nil {
				return failure(err)
			}

			w := app.stdout
			for _, op := range d.Table().Operations() {
				if err := printOperation(w, d.Table(), op); err != nil {
					return failure(err)
				}
			}

			rel := s.cfg.Release
			m := publish.NewMachine(nil, nil, nil, nil, publish.Options{
				Branch:        rel.Branch,
				ChangelogName: filepath.Base(rel.Changelog),
				ManifestName:  filepath.Base(rel.Manifest),
			})
			fmt.Fprintln(w, TitleStyle.Render("publish")+SubtitleStyle.Render(" <version> [remote]"))
			for i, g := range m.Guards("<version>") {
				fmt.Fprintf(w, "  %d. %s %s\n", i+1, g.Name, SubtitleStyle.Render("("+g.Message+")"))
			}
			fmt.Fprintf(w, "  then confirm, %s, %s\n",
				CmdStyle.Render(publish.TagStep("<version>", rel.Sign).String()),
				CmdStyle.Render(publish.PushStep(rel.Remote, "<version>").String()))
			return nil
		},
	}
}

func printOperation(w io.Writer, t *recipe.Table, op recipe.Operation) error {
	fmt.Fprintf(w, "%s %s\n", TitleStyle.Render(op.Name), SubtitleStyle.Render("["+strings.Join(op.Values(), "|")+"]"))
	if op.Description != "" {
		fmt.Fprintf(w, "  %s\n", op.Description)
	}
	for _, c := range op.Choices {
		marker := " "
		if c.Value == op.Default {
			marker = "*"
		}
		steps, err := t.Resolve(op.Name, c.Value)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, " %s %s %s\n", marker, c.Value, SubtitleStyle.Render(fmt.Sprintf("(%d steps)", len(steps))))
		for _, st := range steps {
			fmt.Fprintf(w, "      %s\n", CmdStyle.Render(st.String()))
		}
	}
	fmt.Fprintln(w)
	return nil
}
