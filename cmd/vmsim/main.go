// Command vmsim replays a memory access trace against a page replacement
// algorithm and reports page faults and disk writes.
package main

import "github.com/sarchlab/vmsim/cmd/vmsim/cmd"

func main() {
	cmd.Execute()
}
