// SPDX-License-Identifier: MPL-2.0

package main

import (
	cmd "github.com/invowk/cargoflow/cmd/cargoflow"
)

func main() {
	cmd.Execute()
}
