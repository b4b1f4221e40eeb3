// Command procs administers the PROCS questionnaire.
package main

import "github.com/mesh-intelligence/procs/internal/cli"

func main() {
	cli.Execute()
}
