// Command mapper-generator generates bidirectional mappers between entity
// and DTO struct types.
package main

import "os"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
