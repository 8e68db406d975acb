/*
Command inmemq queries and edits YAML item files through an in-memory
data repository.

	inmemq find   --items staff.yaml --where 'age>=30' --sort name:desc --limit 10
	inmemq update --items staff.yaml --where name=Bob --set age=31 --diff
	inmemq remove --items staff.yaml --where 'boss=null' --one --in-place

An items file is either a YAML list of mappings or a mapping with an
"items" list and an optional "named" mapping of named items.
*/
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
