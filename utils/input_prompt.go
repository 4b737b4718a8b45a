package utils

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"filesage/constants/lipgloss"
)

// InputPromptWithContext prompts the user for a line of input with context
// cancellation support.
func InputPromptWithContext(ctx context.Context, reader *bufio.Reader) (string, error) {
	inputChan := make(chan string, 1)
	errChan := make(chan error, 1)

	go func() {
		fmt.Print(lipgloss.BlueSky.Render("> "))

		userInput, err := reader.ReadString('\n')
		if err != nil {
			if err == io.EOF {
				errChan <- nil
			} else {
				errChan <- fmt.Errorf("error reading input: %v", err)
			}
			return
		}

		inputChan <- strings.TrimSpace(userInput)
	}()

	select {
	case <-ctx.Done():
		fmt.Println()
		return "", ctx.Err()
	case err := <-errChan:
		return "", err
	case input := <-inputChan:
		return input, nil
	}
}

// ConfirmPrompt asks a yes/no question and returns true only on an explicit
// "y" or "yes" answer.
func ConfirmPrompt(message string, reader *bufio.Reader) (bool, error) {
	fmt.Println(lipgloss.Yellow.Render("⚠️  " + message))
	fmt.Print(lipgloss.BlueSky.Render("Proceed? [y/N]: "))

	answer, err := reader.ReadString('\n')
	if err != nil {
		if err == io.EOF {
			return false, nil
		}
		return false, fmt.Errorf("error reading input: %v", err)
	}

	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes", nil
}
