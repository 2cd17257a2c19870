// Command rvcc compiles a small imperative source dialect to RV32IM
// assembly text.
package main

import (
	"os"

	"rvcc/cmd"
)

func main() {
	os.Exit(cmd.Execute(os.Args))
}
