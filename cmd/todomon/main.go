// Command todomon is a small CLI driving the synchronizer against a
// running todomon server. It exists mainly to exercise the client,
// cache and view layers end to end from a terminal.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"todomon/internal/client"
	"todomon/internal/models"
	"todomon/internal/notify"
	"todomon/internal/sync"
	"todomon/internal/view"

	"github.com/sirupsen/logrus"
)

func main() {
	serverURL := flag.String("server", "http://localhost:8080", "base URL of the todomon server")
	status := flag.String("status", "", "narrow the view to a status (active or completed)")
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		usage()
		os.Exit(2)
	}

	filter := models.Filter{}
	if *status != "" {
		s := models.Status(*status)
		if !models.ValidStatus(s) {
			fmt.Fprintln(os.Stderr, "status must be active or completed")
			os.Exit(2)
		}
		filter.Status = &s
	}

	logger := logrus.New()
	logger.SetLevel(logrus.WarnLevel)

	notifier := notify.New()
	notifier.Subscribe(func(m notify.Message) {
		if m.IsErr {
			fmt.Fprintln(os.Stderr, m.Text)
		} else {
			fmt.Println(m.Text)
		}
	})

	remote := client.New(*serverURL)
	synchronizer := sync.New(remote, sync.NewCache(), notifier, logger)
	ctx := context.Background()

	if err := run(ctx, synchronizer, filter, args); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, s *sync.Synchronizer, filter models.Filter, args []string) error {
	command, rest := args[0], args[1:]

	switch command {
	case "add":
		if len(rest) != 1 {
			return fmt.Errorf("usage: todomon add <title>")
		}
		_, err := s.Create(ctx, filter, rest[0])
		return err

	case "list":
		todos, err := s.Todos(ctx, filter)
		if err != nil {
			return err
		}
		if len(todos) == 0 {
			fmt.Println(view.EmptyStateMessage(filter))
			return nil
		}
		for _, todo := range todos {
			mark := " "
			if todo.Status == models.StatusCompleted {
				mark = "x"
			}
			fmt.Printf("[%s] %s  %s\n", mark, todo.ID, todo.Title)
		}
		fmt.Println(view.ItemsLeftLabel(view.ActiveCount(todos)))
		return nil

	case "toggle":
		if len(rest) != 1 {
			return fmt.Errorf("usage: todomon toggle <id>")
		}
		todo, err := findTodo(ctx, s, rest[0])
		if err != nil {
			return err
		}
		_, err = s.Toggle(ctx, filter, todo)
		return err

	case "rm":
		if len(rest) != 1 {
			return fmt.Errorf("usage: todomon rm <id>")
		}
		todo, err := findTodo(ctx, s, rest[0])
		if err != nil {
			return err
		}
		_, err = s.Delete(ctx, filter, todo)
		return err

	case "clear":
		return s.ClearCompleted(ctx, filter)

	case "mv":
		if len(rest) != 2 {
			return fmt.Errorf("usage: todomon mv <fromId> <toId>")
		}
		return s.Move(ctx, filter, rest[0], rest[1])

	case "count":
		todos, err := s.Todos(ctx, models.Filter{})
		if err != nil {
			return err
		}
		fmt.Println(view.ItemsLeftLabel(view.ActiveCount(todos)))
		if view.HasCompleted(todos) {
			fmt.Println("Some todos are completed; run 'todomon clear' to remove them")
		}
		return nil

	default:
		usage()
		return fmt.Errorf("unknown command %q", command)
	}
}

// findTodo resolves an id against the unfiltered list.
func findTodo(ctx context.Context, s *sync.Synchronizer, id string) (models.Todo, error) {
	todos, err := s.Todos(ctx, models.Filter{})
	if err != nil {
		return models.Todo{}, err
	}
	for _, todo := range todos {
		if todo.ID == id {
			return todo, nil
		}
	}
	return models.Todo{}, fmt.Errorf("no todo with id %s", id)
}

func usage() {
	fmt.Fprintln(os.Stderr, `usage: todomon [-server URL] [-status active|completed] <command>

commands:
  add <title>       create a todo
  list              print the filtered view
  toggle <id>       flip a todo between active and completed
  rm <id>           delete a todo
  clear             delete all completed todos
  mv <fromId> <toId>  move a todo to another todo's position
  count             print the items-left summary`)
}
