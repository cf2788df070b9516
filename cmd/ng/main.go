// Command ng is a CLI client for the NoteGenius service.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/notegenius/notegenius/internal/api"
	"github.com/notegenius/notegenius/internal/config"
	"github.com/notegenius/notegenius/internal/model"
	"github.com/notegenius/notegenius/internal/session"
	"github.com/notegenius/notegenius/internal/workspace"
)

var (
	version   = "dev"
	buildDate = "unknown"
)

func usage() {
	fmt.Fprintf(os.Stderr, `ng CLI
Usage:
  ng [-addr URL] [-config file] [-v] <cmd> [args]

Commands:
  version
  signup     -name <name> -email <email> -p <password>
  login      -email <email> -p <password>            (saves token)
  logout
  whoami
  avatar     -file <image>
  list       [-folder <name>] [-search <text>]
  add        -title <t> -content <c> [-folder <name>] [-tags a,b] [-reminder <rfc3339>]
  edit       -id <id> -title <t> -content <c> [-folder <name>] [-tags a,b] [-reminder <rfc3339>]
  rm         -id <id>
  folders
  summarize  -id <id>
  ask        -q <question> [-no-context]
`)
	os.Exit(2)
}

// app bundles the wired client pieces for one invocation.
type app struct {
	client *api.Client
	sess   *session.Session
	cfg    config.Config
	log    *zap.Logger
}

func newApp(addr, cfgPath string, verbose bool) *app {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		fail(err)
	}
	if addr != "" {
		cfg.Addr = addr
	}

	log := zap.NewNop()
	if verbose {
		log, _ = zap.NewDevelopment()
	}

	client := api.New(cfg.Addr, api.WithTimeout(cfg.Timeout), api.WithLogger(log))
	sess := session.New(client, client, session.NewFileTokenStore(""), log)
	// any 401 forces logout so a dead credential never lingers
	client.OnAuthReject(sess.Logout)

	return &app{client: client, sess: sess, cfg: cfg, log: log}
}

// requireAuth restores the persisted credential or exits.
func (a *app) requireAuth() {
	if !a.sess.Restore() {
		fail(fmt.Errorf("no valid token (login required)"))
	}
}

func (a *app) workspace(ctx context.Context) *workspace.Workspace {
	return workspace.New(ctx, a.client, a.cfg.Debounce, a.log)
}

func main() {
	addr := flag.String("addr", "", "API base URL (overrides config)")
	cfgPath := flag.String("config", "", "config file (YAML)")
	verbose := flag.Bool("v", false, "verbose logging")
	flag.Usage = usage
	flag.Parse()

	if flag.NArg() < 1 {
		usage()
	}
	cmd := flag.Arg(0)
	args := flag.Args()[1:]

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	if cmd == "version" {
		fmt.Printf("ng %s (%s)\n", version, buildDate)
		return
	}

	a := newApp(*addr, *cfgPath, *verbose)
	defer func() { _ = a.log.Sync() }()

	switch cmd {

	case "signup":
		fs := flag.NewFlagSet("signup", flag.ExitOnError)
		name := fs.String("name", "", "display name")
		email := fs.String("email", "", "email")
		p := fs.String("p", "", "password")
		_ = fs.Parse(args)
		if *name == "" || *email == "" || *p == "" {
			fmt.Fprintln(os.Stderr, "need -name, -email and -p")
			os.Exit(1)
		}
		user, err := a.sess.Signup(ctx, *name, *email, *p)
		if err != nil {
			fail(err)
		}
		printJSON(user)

	case "login":
		fs := flag.NewFlagSet("login", flag.ExitOnError)
		email := fs.String("email", "", "email")
		p := fs.String("p", "", "password")
		_ = fs.Parse(args)
		if *email == "" || *p == "" {
			fmt.Fprintln(os.Stderr, "need -email and -p")
			os.Exit(1)
		}
		if _, err := a.sess.Login(ctx, *email, *p); err != nil {
			fail(err)
		}
		fmt.Println("ok")

	case "logout":
		_ = a.sess.Restore()
		a.sess.Logout()
		fmt.Println("ok")

	case "whoami":
		a.requireAuth()
		user, err := a.sess.FetchCurrentUser(ctx)
		if err != nil {
			fail(err)
		}
		printJSON(user)

	case "avatar":
		fs := flag.NewFlagSet("avatar", flag.ExitOnError)
		file := fs.String("file", "", "image file")
		_ = fs.Parse(args)
		if *file == "" {
			fmt.Fprintln(os.Stderr, "need -file")
			os.Exit(1)
		}
		a.requireAuth()
		if _, err := a.sess.FetchCurrentUser(ctx); err != nil {
			fail(err)
		}
		content, err := os.ReadFile(*file)
		if err != nil {
			fail(err)
		}
		ctype := mime.TypeByExtension(filepath.Ext(*file))
		url, err := a.client.UploadAvatar(ctx, filepath.Base(*file), ctype, content)
		if err != nil {
			fail(err)
		}
		a.sess.UpdateUser(session.UserPatch{AvatarURL: &url})
		fmt.Println(url)

	case "list":
		fs := flag.NewFlagSet("list", flag.ExitOnError)
		folder := fs.String("folder", "", "folder filter")
		text := fs.String("search", "", "search text")
		_ = fs.Parse(args)
		a.requireAuth()
		notes, err := a.client.ListNotes(ctx, *folder, *text)
		if err != nil {
			fail(err)
		}
		type row struct {
			ID, Title, Folder, UpdatedAt string
			Tags                         []string
		}
		rows := make([]row, 0, len(notes))
		for _, n := range notes {
			rows = append(rows, row{
				ID:        n.ID,
				Title:     n.Title,
				Folder:    n.Folder,
				UpdatedAt: n.UpdatedAt.UTC().Format(time.RFC3339),
				Tags:      n.Tags,
			})
		}
		printJSON(rows)

	case "add":
		draft, fs := draftFlags()
		_ = fs.Parse(args)
		a.requireAuth()
		ws := a.workspace(ctx)
		defer ws.Close()
		note, err := ws.CreateNote(ctx, draft())
		if err != nil {
			fail(err)
		}
		printJSON(note)

	case "edit":
		draft, fs := draftFlags()
		id := fs.String("id", "", "note id")
		_ = fs.Parse(args)
		if *id == "" {
			fmt.Fprintln(os.Stderr, "need -id")
			os.Exit(1)
		}
		a.requireAuth()
		ws := a.workspace(ctx)
		defer ws.Close()
		note, err := ws.UpdateNote(ctx, *id, draft())
		if err != nil {
			fail(err)
		}
		printJSON(note)

	case "rm":
		fs := flag.NewFlagSet("rm", flag.ExitOnError)
		id := fs.String("id", "", "note id")
		_ = fs.Parse(args)
		if *id == "" {
			fmt.Fprintln(os.Stderr, "need -id")
			os.Exit(1)
		}
		a.requireAuth()
		ws := a.workspace(ctx)
		defer ws.Close()
		if err := ws.DeleteNote(ctx, *id); err != nil {
			fail(err)
		}
		fmt.Println("ok")

	case "folders":
		a.requireAuth()
		sums, err := a.client.ListFolders(ctx)
		if err != nil {
			fail(err)
		}
		printJSON(sums)

	case "summarize":
		fs := flag.NewFlagSet("summarize", flag.ExitOnError)
		id := fs.String("id", "", "note id")
		_ = fs.Parse(args)
		if *id == "" {
			fmt.Fprintln(os.Stderr, "need -id")
			os.Exit(1)
		}
		a.requireAuth()
		summary, err := a.client.SummarizeNote(ctx, *id)
		if err != nil {
			fail(err)
		}
		fmt.Println(summary)

	case "ask":
		fs := flag.NewFlagSet("ask", flag.ExitOnError)
		q := fs.String("q", "", "question")
		noCtx := fs.Bool("no-context", false, "do not ground in recent notes")
		_ = fs.Parse(args)
		if strings.TrimSpace(*q) == "" {
			fmt.Fprintln(os.Stderr, "need -q")
			os.Exit(1)
		}
		a.requireAuth()
		ws := a.workspace(ctx)
		defer ws.Close()
		if !*noCtx {
			if err := ws.Refresh(ctx); err != nil {
				fail(err)
			}
		}
		answer, err := ws.Ask(ctx, *q, !*noCtx)
		if err != nil {
			fail(err)
		}
		fmt.Println(answer)

	default:
		usage()
	}
}

// draftFlags builds the shared add/edit flag set; the returned func assembles
// the draft after parsing.
func draftFlags() (func() model.NoteDraft, *flag.FlagSet) {
	fs := flag.NewFlagSet("note", flag.ExitOnError)
	title := fs.String("title", "", "note title")
	content := fs.String("content", "", "note content")
	folder := fs.String("folder", "", "folder (defaults to Personal)")
	tags := fs.String("tags", "", "comma-separated tags")
	reminder := fs.String("reminder", "", "scheduled reminder (RFC3339)")
	return func() model.NoteDraft {
		var tagList []string
		if *tags != "" {
			tagList = strings.Split(*tags, ",")
		}
		return model.NoteDraft{
			Title:             *title,
			Content:           *content,
			Folder:            *folder,
			Tags:              tagList,
			ScheduledReminder: *reminder,
		}
	}, fs
}

func printJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}

func fail(err error) {
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}
