// Command passwd prints a bcrypt hash for the given password, ready to be
// inserted into the admin_users table.
package main

import (
	"fmt"
	"os"

	"github.com/m2dev/codefolio/internal/pkg/security"
)

func main() {
	if len(os.Args) != 2 {
		fmt.Fprintln(os.Stderr, "usage: passwd <password>")
		os.Exit(2)
	}

	hash, err := security.HashPassword(os.Args[1])
	if err != nil {
		fmt.Fprintf(os.Stderr, "hash password: %v\n", err)
		os.Exit(1)
	}

	fmt.Println(hash)
}
