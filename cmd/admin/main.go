package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/url"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/google/uuid"
	"github.com/ilyakaznacheev/cleanenv"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"github.com/wenhub/content-engine/pkg/contentengine"
	repopg "github.com/wenhub/content-engine/pkg/contentengine/repo/postgres"
)

const usage = `Content Engine Admin CLI

A lightweight admin tool for the content engine that only requires database access.

USAGE:
  admin <command> [options]

COMMANDS:
  list      List content with optional filtering
  count     Count content with optional filtering
  search    Full-text search over content
  types     List content types
  tree      Print the category tree

ENVIRONMENT VARIABLES:
  DATABASE_URL       PostgreSQL connection string (overrides CONTENT_PG_*)
  CONTENT_PG_HOST    PostgreSQL host (default: localhost)
  CONTENT_PG_PORT    PostgreSQL port (default: 5432)
  CONTENT_PG_NAME    Database name (default: content_engine)
  CONTENT_PG_USER    Database user (default: content)
  CONTENT_PG_PASSWORD Database password

  Configuration can be loaded from a .env file in the current directory.
  Command line environment variables override .env file values.

EXAMPLES:
  # List all content
  admin list

  # List published content of a type
  admin list --type-id=550e8400-e29b-41d4-a716-446655440000 --status=published

  # List with pagination
  admin list --limit=10 --page=2

  # Count all content
  admin count

  # Full-text search
  admin search "hello world"

  # Print the category tree for a taxonomy type
  admin tree --type=blog

  # Output as JSON
  admin list --json

OPTIONS (for list/count):
  --type-id=<uuid>       Filter by content type ID
  --status=<status>      Filter by status (draft, published, archived)
  --category-id=<uuid>   Filter by category
  --tag-id=<uuid>        Filter by tag
  --limit=<n>            Maximum results (list only, default: 100)
  --page=<n>             Page number (list only, default: 1)
  --json                 Output as JSON
`

// DbConfig is the fallback connection config when DATABASE_URL is not set.
type DbConfig struct {
	Port     uint16 `env:"CONTENT_PG_PORT" env-default:"5432"`
	Host     string `env:"CONTENT_PG_HOST" env-default:"localhost"`
	Name     string `env:"CONTENT_PG_NAME" env-default:"content_engine"`
	User     string `env:"CONTENT_PG_USER" env-default:"content"`
	Password string `env:"CONTENT_PG_PASSWORD" env-default:"pwd"`
}

func (c DbConfig) toDatabaseUrl() string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(c.User, c.Password),
		Host:   fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:   c.Name,
	}
	return u.String()
}

func main() {
	// Load .env file if it exists (silently ignore if not found)
	_ = godotenv.Load()

	if len(os.Args) < 2 {
		fmt.Printf("%s\n", usage)
		os.Exit(1)
	}

	command := os.Args[1]

	if command == "help" || command == "--help" || command == "-h" {
		fmt.Printf("%s\n", usage)
		os.Exit(0)
	}

	ctx := context.Background()

	repo, err := createRepository(ctx)
	if err != nil {
		log.Fatalf("Failed to connect: %v", err)
	}

	svc, err := contentengine.New(contentengine.WithRepository(repo))
	if err != nil {
		log.Fatalf("Failed to create service: %v", err)
	}

	args := os.Args[2:]

	switch command {
	case "list":
		handleList(ctx, svc, args)
	case "count":
		handleCount(ctx, svc, args)
	case "search":
		handleSearch(ctx, svc, args)
	case "types":
		handleTypes(ctx, svc, args)
	case "tree":
		handleTree(ctx, svc, args)
	default:
		fmt.Printf("Unknown command: %s\n\n", command)
		fmt.Printf("%s\n", usage)
		os.Exit(1)
	}
}

func createRepository(ctx context.Context) (contentengine.Repository, error) {
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		var dbConfig DbConfig
		if err := cleanenv.ReadEnv(&dbConfig); err != nil {
			return nil, fmt.Errorf("failed to read configuration: %w", err)
		}
		dbURL = dbConfig.toDatabaseUrl()
	}

	pool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return repopg.NewWithPool(pool), nil
}

func parseListParams(args []string) (contentengine.ContentListParams, bool) {
	params := contentengine.ContentListParams{Limit: 100}
	useJSON := false

	for _, arg := range args {
		switch {
		case arg == "--json":
			useJSON = true
		case strings.HasPrefix(arg, "--type-id="):
			if id, err := uuid.Parse(strings.TrimPrefix(arg, "--type-id=")); err == nil {
				params.TypeID = &id
			}
		case strings.HasPrefix(arg, "--status="):
			status := contentengine.ContentStatus(strings.TrimPrefix(arg, "--status="))
			params.Status = &status
		case strings.HasPrefix(arg, "--category-id="):
			if id, err := uuid.Parse(strings.TrimPrefix(arg, "--category-id=")); err == nil {
				params.CategoryID = &id
			}
		case strings.HasPrefix(arg, "--tag-id="):
			if id, err := uuid.Parse(strings.TrimPrefix(arg, "--tag-id=")); err == nil {
				params.TagID = &id
			}
		case strings.HasPrefix(arg, "--limit="):
			if n, err := strconv.Atoi(strings.TrimPrefix(arg, "--limit=")); err == nil {
				params.Limit = n
			}
		case strings.HasPrefix(arg, "--page="):
			if n, err := strconv.Atoi(strings.TrimPrefix(arg, "--page=")); err == nil {
				params.Page = n
			}
		}
	}

	return params, useJSON
}

func handleList(ctx context.Context, svc contentengine.Service, args []string) {
	params, useJSON := parseListParams(args)

	contents, total, err := svc.ListContent(ctx, params)
	if err != nil {
		log.Fatalf("Failed to list content: %v", err)
	}

	if useJSON {
		printJSON(map[string]interface{}{"contents": contents, "total": total})
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSLUG\tTITLE\tSTATUS\tCREATED")
	for _, c := range contents {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			c.ID, c.Slug, c.Title, c.Status, c.CreatedAt.Format("2006-01-02 15:04:05"))
	}
	w.Flush()
	fmt.Printf("\nTotal: %d\n", total)
}

func handleCount(ctx context.Context, svc contentengine.Service, args []string) {
	params, useJSON := parseListParams(args)
	params.Limit = 1

	_, total, err := svc.ListContent(ctx, params)
	if err != nil {
		log.Fatalf("Failed to count content: %v", err)
	}

	if useJSON {
		printJSON(map[string]interface{}{"count": total})
		return
	}
	fmt.Println(total)
}

func handleSearch(ctx context.Context, svc contentengine.Service, args []string) {
	var query string
	useJSON := false
	for _, arg := range args {
		if arg == "--json" {
			useJSON = true
		} else if !strings.HasPrefix(arg, "--") {
			query = arg
		}
	}

	contents, err := svc.SearchContentFullText(ctx, contentengine.SearchParams{Query: query})
	if err != nil {
		log.Fatalf("Failed to search content: %v", err)
	}

	if useJSON {
		printJSON(contents)
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSLUG\tTITLE\tSTATUS")
	for _, c := range contents {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", c.ID, c.Slug, c.Title, c.Status)
	}
	w.Flush()
	fmt.Printf("\nMatches: %d\n", len(contents))
}

func handleTypes(ctx context.Context, svc contentengine.Service, args []string) {
	useJSON := false
	for _, arg := range args {
		if arg == "--json" {
			useJSON = true
		}
	}

	contentTypes, err := svc.ListContentTypes(ctx)
	if err != nil {
		log.Fatalf("Failed to list content types: %v", err)
	}

	if useJSON {
		printJSON(contentTypes)
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tFIELDS")
	for _, ct := range contentTypes {
		fmt.Fprintf(w, "%s\t%s\t%d\n", ct.ID, ct.Name, len(ct.Schema))
	}
	w.Flush()
}

func handleTree(ctx context.Context, svc contentengine.Service, args []string) {
	var categoryType string
	useJSON := false
	for _, arg := range args {
		if arg == "--json" {
			useJSON = true
		} else if strings.HasPrefix(arg, "--type=") {
			categoryType = strings.TrimPrefix(arg, "--type=")
		}
	}

	tree, err := svc.CategoryTree(ctx, categoryType)
	if err != nil {
		log.Fatalf("Failed to build category tree: %v", err)
	}

	if useJSON {
		printJSON(tree)
		return
	}

	for _, node := range tree {
		printNode(node, 0)
	}
}

func printNode(node *contentengine.CategoryNode, depth int) {
	fmt.Printf("%s%s (%s)\n", strings.Repeat("  ", depth), node.NameEN, node.Slug)
	for _, child := range node.Children {
		printNode(child, depth+1)
	}
}

func printJSON(v interface{}) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		log.Fatalf("Failed to marshal JSON: %v", err)
	}
	fmt.Println(string(data))
}
