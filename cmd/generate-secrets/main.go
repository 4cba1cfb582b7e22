package main

import (
	"fmt"
	"log"

	"github.com/eliaselmokadem/guide2umrahfrontend/internal/utils"
)

func main() {
	fmt.Println("===========================================")
	fmt.Println("Session Secret Generator for Guide2Umrah")
	fmt.Println("===========================================")
	fmt.Println()

	secret, err := utils.GenerateSessionSecret()
	if err != nil {
		log.Fatalf("Failed to generate secret: %v", err)
	}

	fmt.Println("Secret generated successfully!")
	fmt.Println()
	fmt.Println("Add this to your .env file:")
	fmt.Println()
	fmt.Printf("SESSION_SECRET=%s\n", secret)
	fmt.Println()
	fmt.Println("IMPORTANT: changing the secret logs out every admin. Never commit it to version control!")
	fmt.Println("===========================================")
}
