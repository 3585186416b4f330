// The molparse binary is the command line interface: local SMILES parsing
// plus remote access to a MolParse API server.
package main

import "github.com/turtacn/MolParse/internal/interfaces/cli"

func main() {
	cli.Execute()
}
