package models

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// Category is one allowed classification target.
type Category struct {
	Name        string
	Description string
}

// LoadCategories reads category definitions from path. Each definition is
// one line of the form "[name]description"; blank lines and lines not
// starting with "[" are ignored.
func LoadCategories(path string) ([]Category, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open categories file: %w", err)
	}
	defer f.Close()

	var cats []Category
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if !strings.HasPrefix(line, "[") {
			continue
		}
		name, desc, found := strings.Cut(line[1:], "]")
		if !found || name == "" {
			continue
		}
		cats = append(cats, Category{Name: name, Description: desc})
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(cats) == 0 {
		return nil, fmt.Errorf("no categories found in %s", path)
	}
	return cats, nil
}

// BuildSystemPrompt renders the classifier instructions with the allowed
// category list. The response-format contract at the end is what
// [Client.Classify] parses against.
func BuildSystemPrompt(cats []Category) string {
	var list strings.Builder
	for _, c := range cats {
		fmt.Fprintf(&list, "- %s: %s\n", c.Name, c.Description)
	}

	return fmt.Sprintf(`You are a technical classifier for software projects. Your task is to:
1. Assign 1-5 categories from the list below
2. Write a concise summary (max 30 words) of what the software does

RULES:
- Never use the words "node", "nodes", or the host tool's name
- No filler phrases like "This project...", "A collection of...", "Tools for..."
- Start directly with a verb or noun describing functionality
- Be specific and technical

CATEGORIES:
%s
RESPOND IN EXACTLY THIS JSON FORMAT:
{"categories": ["cat1", "cat2"], "summary": "Direct description of functionality"}`, list.String())
}
