// Pagewalk is a teaching harness that simulates x86-64 4-level,
// 4KB-page address translation over a synthetic sparse physical memory.
package main

import "github.com/sarchlab/pagewalk/pagewalk/cmd"

func main() {
	cmd.Execute()
}
