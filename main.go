// SPDX-License-Identifier: MPL-2.0

package main

import cmd "github.com/invowk/pkgtarget/cmd/pkgtarget"

func main() {
	cmd.Execute()
}
