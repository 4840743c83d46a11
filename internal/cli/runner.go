// Package cli routes subcommands. `ls` opens the interactive view; the
// rest are one-shot CRUD calls for scripting, all going through the same
// API client.
package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/joaosp7/items-manager/internal/api"
	"github.com/joaosp7/items-manager/internal/model"
	"github.com/joaosp7/items-manager/internal/query"
	"github.com/joaosp7/items-manager/internal/tui"
	"github.com/joaosp7/items-manager/internal/ui"
)

// Run dispatches subcommands and returns an exit code (0 ok, 1 error, 2 usage).
func Run(args []string, client *api.Client) int {
	if len(args) == 0 {
		PrintHelp()
		return 2
	}
	cmd, a := args[0], args[1:]

	switch cmd {
	case "help", "-h", "--help":
		PrintHelp()
		return 0

	case "ls":
		return doList(a, client)

	case "add":
		return doAdd(a, client)

	case "get":
		if len(a) != 1 {
			ui.Fail("usage: items get <id>")
			return 2
		}
		return doGet(a[0], client)

	case "edit":
		return doEdit(a, client)

	case "rm":
		if len(a) != 1 {
			ui.Fail("usage: items rm <id>")
			return 2
		}
		return doRemove(a[0], client)
	}

	ui.Fail("unknown subcommand: " + cmd)
	fmt.Fprintln(os.Stderr)
	PrintHelp()
	return 2
}

func PrintHelp() {
	fmt.Printf(`items - terminal client for the items API

Usage:
  items <subcommand> [args]

Subcommands:
  ls [flags]               Browse items (interactive)
      --search --page --limit --sort --order
  add [flags] <name...>    Create an item
      --status todo|doing|done  --desc <text>
  get <id>                 Show one item
  edit <id> [flags]        Update fields of an item
      --name --status --desc
  rm <id>                  Delete an item

Examples:
  items ls --search milk --sort name --order ASC
  items add --status doing "Buy milk"
  items edit 42 --status done
  items rm 42
`)
}

// -------------- subcommand impls ----------------

func doList(args []string, client *api.Client) int {
	q := query.Default()

	fs := flag.NewFlagSet("ls", flag.ContinueOnError)
	fs.StringVar(&q.Search, "search", q.Search, "substring filter on name")
	fs.IntVar(&q.Page, "page", q.Page, "1-based page number")
	fs.IntVar(&q.Limit, "limit", q.Limit, "page size")
	fs.StringVar(&q.Sort, "sort", q.Sort, "sort field (name|createdAt|updatedAt)")
	order := fs.String("order", string(q.Order), "ASC or DESC")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	q.Order = query.Order(strings.ToUpper(*order))
	if q.Order != query.OrderAsc && q.Order != query.OrderDesc {
		ui.Fail("ls: order must be ASC or DESC")
		return 2
	}
	q = q.WithPage(q.Page)

	if err := tui.Run(client, q); err != nil {
		ui.Fail("tui: " + err.Error())
		return 1
	}
	return 0
}

func doAdd(args []string, client *api.Client) int {
	fs := flag.NewFlagSet("add", flag.ContinueOnError)
	status := fs.String("status", string(model.StatusTodo), "todo|doing|done")
	desc := fs.String("desc", "", "description")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	name := strings.TrimSpace(strings.Join(fs.Args(), " "))
	if name == "" {
		ui.Fail("usage: items add [flags] <name...>")
		return 2
	}
	if err := model.ValidateName(name); err != nil {
		ui.Fail("add: " + err.Error())
		return 2
	}
	st, err := model.ParseStatus(*status)
	if err != nil {
		ui.Fail("add: " + err.Error())
		return 2
	}

	item, err := client.Create(context.Background(), model.FormData{
		Name:        name,
		Status:      st,
		Description: *desc,
	})
	if err != nil {
		ui.Fail("add: " + err.Error())
		return 1
	}
	ui.OK("created " + item.ID)
	return 0
}

func doGet(id string, client *api.Client) int {
	item, err := client.GetByID(context.Background(), id)
	if err != nil {
		if errors.Is(err, api.ErrNotFound) {
			ui.Fail("get: no item with id " + id)
			return 1
		}
		ui.Fail("get: " + err.Error())
		return 1
	}
	ui.Panel(itemLines(item))
	return 0
}

func doEdit(args []string, client *api.Client) int {
	if len(args) == 0 {
		ui.Fail("usage: items edit <id> [flags]")
		return 2
	}
	id, rest := args[0], args[1:]

	fs := flag.NewFlagSet("edit", flag.ContinueOnError)
	name := fs.String("name", "", "new name")
	status := fs.String("status", "", "todo|doing|done")
	desc := fs.String("desc", "", "new description")
	if err := fs.Parse(rest); err != nil {
		return 2
	}

	// only flags that were actually given go into the patch
	var patch model.Patch
	seen := map[string]bool{}
	fs.Visit(func(f *flag.Flag) { seen[f.Name] = true })
	if seen["name"] {
		if err := model.ValidateName(*name); err != nil {
			ui.Fail("edit: " + err.Error())
			return 2
		}
		trimmed := strings.TrimSpace(*name)
		patch.Name = &trimmed
	}
	if seen["status"] {
		st, err := model.ParseStatus(*status)
		if err != nil {
			ui.Fail("edit: " + err.Error())
			return 2
		}
		patch.Status = &st
	}
	if seen["desc"] {
		patch.Description = desc
	}
	if patch.Empty() {
		ui.Fail("edit: nothing to change (use --name, --status or --desc)")
		return 2
	}

	if _, err := client.Update(context.Background(), id, patch); err != nil {
		if errors.Is(err, api.ErrNotFound) {
			ui.Fail("edit: no item with id " + id)
			return 1
		}
		ui.Fail("edit: " + err.Error())
		return 1
	}
	ui.OK("updated")
	return 0
}

func doRemove(id string, client *api.Client) int {
	if err := client.Delete(context.Background(), id); err != nil {
		if errors.Is(err, api.ErrNotFound) {
			ui.Fail("rm: no item with id " + id)
			return 1
		}
		ui.Fail("rm: " + err.Error())
		return 1
	}
	ui.OK("deleted")
	return 0
}

func itemLines(it *model.Item) []string {
	lines := []string{
		ui.TitleStyle.Render(it.Name) + "  " + ui.AccentStyle.Render(it.Status.Label()),
		ui.MutedStyle.Render("id: " + it.ID),
	}
	if it.Description != "" {
		lines = append(lines, "", it.Description)
	}
	lines = append(lines, "",
		ui.MutedStyle.Render("created: "+it.CreatedAt.Format("2006-01-02 15:04")),
		ui.MutedStyle.Render("updated: "+it.UpdatedAt.Format("2006-01-02 15:04")),
	)
	return lines
}
