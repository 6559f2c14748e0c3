package app

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/JonMunkholm/accountsync/internal/core"
	"github.com/JonMunkholm/accountsync/internal/store"
)

// Env is what a command runs against.
type Env struct {
	Out      io.Writer
	Reports  *core.Reports
	Login    string
	Password string

	// OpenStore opens the create_database target.
	OpenStore func(ctx context.Context) (store.Persister, error)
}

// Command is one entry of the command table.
type Command struct {
	Name        string
	Description string
	AdminOnly   bool
	Run         func(ctx context.Context, env *Env) error
}

var commands = []Command{
	{
		Name:        "print-all-accounts",
		Description: "Print the number of valid accounts",
		AdminOnly:   true,
		Run:         printAllAccounts,
	},
	{
		Name:        "print-oldest-account",
		Description: "Print the account created first",
		AdminOnly:   true,
		Run:         printOldestAccount,
	},
	{
		Name:        "group-by-age",
		Description: "Count children by age, least common first",
		AdminOnly:   true,
		Run:         groupByAge,
	},
	{
		Name:        "print-children",
		Description: "Print your children",
		Run:         printChildren,
	},
	{
		Name:        "find-similar-children-by-age",
		Description: "Find accounts with children the same age as yours",
		Run:         findSimilarChildrenByAge,
	},
	{
		Name:        "create_database",
		Description: "Write the cleaned accounts to PERSIST_TARGET",
		AdminOnly:   true,
		Run:         createDatabase,
	},
}

// Lookup returns the command registered under name.
func Lookup(name string) (Command, bool) {
	for _, c := range commands {
		if c.Name == name {
			return c, true
		}
	}
	return Command{}, false
}

// Commands returns the command table in display order.
func Commands() []Command {
	out := make([]Command, len(commands))
	copy(out, commands)
	return out
}

func printAllAccounts(_ context.Context, env *Env) error {
	n, err := env.Reports.Count(env.Login, env.Password)
	if err != nil {
		return err
	}
	fmt.Fprintln(env.Out, n)
	return nil
}

func printOldestAccount(_ context.Context, env *Env) error {
	rec, err := env.Reports.Oldest(env.Login, env.Password)
	if err != nil {
		return err
	}
	if rec == nil {
		return nil
	}
	fmt.Fprintf(env.Out, "name: %s\nemail_address: %s\ncreated_at: %s\n",
		rec.FirstName, rec.Email, rec.CreatedAtString())
	return nil
}

func groupByAge(_ context.Context, env *Env) error {
	buckets, err := env.Reports.AgeHistogram(env.Login, env.Password)
	if err != nil {
		return err
	}
	for _, b := range buckets {
		fmt.Fprintf(env.Out, "age: %d, count: %d\n", b.Age, b.Count)
	}
	return nil
}

func printChildren(_ context.Context, env *Env) error {
	children, err := env.Reports.Children(env.Login, env.Password)
	if err != nil {
		return err
	}
	for _, c := range children {
		fmt.Fprintf(env.Out, "%s, %d\n", c.Name, c.Age)
	}
	return nil
}

func findSimilarChildrenByAge(_ context.Context, env *Env) error {
	matches, err := env.Reports.SimilarByAge(env.Login, env.Password)
	if err != nil {
		return err
	}
	for _, m := range matches {
		parts := make([]string, len(m.Children))
		for i, c := range m.Children {
			parts[i] = fmt.Sprintf("%s, %d", c.Name, c.Age)
		}
		fmt.Fprintf(env.Out, "%s, %s: %s\n", m.FirstName, m.Phone, strings.Join(parts, "; "))
	}
	return nil
}

func createDatabase(ctx context.Context, env *Env) error {
	if _, err := env.Reports.RequireAdmin(env.Login, env.Password); err != nil {
		return err
	}

	p, err := env.OpenStore(ctx)
	if err != nil {
		return fmt.Errorf("persist: %w", err)
	}
	defer p.Close()

	if err := p.Replace(ctx, env.Reports.Records()); err != nil {
		return fmt.Errorf("persist: %w", err)
	}

	fmt.Fprintln(env.Out, "Database created successfully.")
	return nil
}
