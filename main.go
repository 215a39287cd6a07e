// SPDX-License-Identifier: MPL-2.0

// workshopctl is a command line manager for Steam Workshop content.
package main

import cmd "workshopctl/cmd/workshopctl"

func main() {
	cmd.Execute()
}
