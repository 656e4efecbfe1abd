package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"patternadvisor/internal/recommend"
	"patternadvisor/internal/report"
)

type analyzer interface {
	Analyze(ctx context.Context, useCase string) (recommend.Set, error)
}

// session интерактивный цикл: прочитать use case, получить рекомендации, вывести.
type session struct {
	analyzer analyzer
	in       io.Reader
	out      io.Writer
	format   string
}

func isQuit(line string) bool {
	switch strings.ToLower(line) {
	case "exit", "quit", "sair":
		return true
	}
	return false
}

// run завершается по EOF, команде выхода или отмене ctx. Чтение stdin блокирующее,
// поэтому строки читаются в отдельной горутине.
func (s *session) run(ctx context.Context) error {
	lines := make(chan string)
	readErr := make(chan error, 1)
	stop := make(chan struct{})
	defer close(stop)

	go func() {
		scanner := bufio.NewScanner(s.in)
		scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-stop:
				return
			}
		}
		readErr <- scanner.Err()
	}()

	fmt.Fprintln(s.out, "=== Design Pattern Recommendation ===")
	fmt.Fprintln(s.out, "Type a use case (or 'exit' to quit).")

	for {
		if ctx.Err() != nil {
			return nil
		}
		fmt.Fprint(s.out, "\nUse case: ")

		var line string
		select {
		case <-ctx.Done():
			fmt.Fprintln(s.out)
			return nil
		case err := <-readErr:
			fmt.Fprintln(s.out)
			return err
		case line = <-lines:
		}

		trimmed := strings.TrimSpace(line)
		if isQuit(trimmed) {
			return nil
		}
		if trimmed == "" {
			fmt.Fprintln(s.out, "Please enter a non-empty use case.")
			continue
		}

		fmt.Fprintln(s.out, "\nAnalyzing...")
		set, err := s.analyzer.Analyze(ctx, line)
		if ctx.Err() != nil {
			return nil
		}
		if err != nil {
			fmt.Fprintf(s.out, "Error: %v\n", err)
			continue
		}
		if err := report.Render(s.out, set, s.format); err != nil {
			return err
		}
	}
}
