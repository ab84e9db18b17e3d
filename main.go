// SPDX-License-Identifier: MPL-2.0

package main

import "github.com/invowk/linkres/cmd/linkres"

func main() {
	cmd.Execute()
}
