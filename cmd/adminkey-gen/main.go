package main

import (
	"fmt"
	"log"
	"os"

	"paysentry.backend/pkg/crypto"
)

// Generates the bcrypt hash expected in ADMIN_KEY_HASH. With no
// argument a random key is generated and printed alongside its hash.
func main() {
	var key string
	if len(os.Args) > 1 {
		key = os.Args[1]
	} else {
		generated, err := crypto.GenerateRandomToken(24)
		if err != nil {
			log.Fatalf("Failed to generate key: %v", err)
		}
		key = generated
		fmt.Printf("Generated operator key: %s\n", key)
	}

	hash, err := crypto.HashAdminKey(key)
	if err != nil {
		log.Fatalf("Failed to hash key: %v", err)
	}

	fmt.Printf("ADMIN_KEY_HASH=%s\n", hash)
}
