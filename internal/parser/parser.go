// Package parser extracts flashcards from plain-text deck files. A card is
// a "Q:" block followed by an "A:" block; either block may span multiple
// lines, and "---" ends a card early.
package parser

import (
	"bufio"
	"io"
	"os"
	"strings"
)

const (
	questionPrefix = "Q:"
	answerPrefix   = "A:"
)

// Draft is a parsed card that has not been stored yet. It carries no
// weight or theme; the importer assigns those.
type Draft struct {
	Question string
	Answer   string
}

type state int

const (
	seeking state = iota
	readingQuestion
	readingAnswer
)

// ParseFile reads a deck file from the given path and extracts all cards.
func ParseFile(path string) ([]Draft, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return Parse(file)
}

// Parse reads from an io.Reader and extracts all cards. Drafts without a
// question are dropped; a question with no answer yet is kept, since decks
// are sometimes written question-first.
func Parse(r io.Reader) ([]Draft, error) {
	scanner := bufio.NewScanner(r)
	var drafts []Draft
	var current Draft
	var block []string
	currentState := seeking

	closeBlock := func() {
		if len(block) == 0 {
			return
		}
		content := strings.Join(block, "\n")
		switch currentState {
		case readingQuestion:
			current.Question = content
		case readingAnswer:
			current.Answer = content
		}
		block = nil
	}

	finishCard := func() {
		closeBlock()
		if current.Question != "" {
			drafts = append(drafts, current)
		}
		current = Draft{}
		currentState = seeking
	}

	for scanner.Scan() {
		line := scanner.Text()

		switch {
		case line == "---":
			finishCard()

		case strings.HasPrefix(line, questionPrefix):
			closeBlock()
			// A new question always starts a new card.
			if currentState != seeking {
				finishCard()
			}
			currentState = readingQuestion
			block = append(block, trimPrefix(line, questionPrefix))

		case strings.HasPrefix(line, answerPrefix):
			closeBlock()
			currentState = readingAnswer
			block = append(block, trimPrefix(line, answerPrefix))

		case currentState != seeking:
			block = append(block, line)
		}
	}

	finishCard() // Finish the very last card in the file

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return drafts, nil
}

func trimPrefix(line, prefix string) string {
	content := line[len(prefix):]
	if strings.HasPrefix(content, " ") {
		content = content[1:]
	}
	return content
}
