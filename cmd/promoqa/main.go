package main

import (
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/shelbytessier/nativepath-promotions-sub000/internal/api"
	"github.com/shelbytessier/nativepath-promotions-sub000/internal/channel"
	"github.com/shelbytessier/nativepath-promotions-sub000/internal/content"
	"github.com/shelbytessier/nativepath-promotions-sub000/internal/qa"
	"github.com/shelbytessier/nativepath-promotions-sub000/internal/reporting"
	"github.com/shelbytessier/nativepath-promotions-sub000/internal/rulepack"
	"github.com/shelbytessier/nativepath-promotions-sub000/internal/rules"
	"github.com/shelbytessier/nativepath-promotions-sub000/internal/scoring"
	"github.com/shelbytessier/nativepath-promotions-sub000/internal/security"
	"github.com/shelbytessier/nativepath-promotions-sub000/internal/shared"
	"github.com/shelbytessier/nativepath-promotions-sub000/internal/storage"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}
	switch os.Args[1] {
	case "check":
		checkCmd(os.Args[2:])
	case "rules":
		rulesCmd(os.Args[2:])
	case "serve":
		serveCmd(os.Args[2:])
	case "diff":
		diffCmd(os.Args[2:])
	case "version":
		fmt.Println("promoqa – content QA engine:", qa.Version)
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, `promoqa – channel-aware content QA

Usage:
  promoqa check  --path <file-or-dir> --channel <label> [--out <reports-dir>] [--db ./promoqa.db] [--config ./configs/promoqa.yaml]
  promoqa rules  [--channel <label>] [--config ./configs/promoqa.yaml]
  promoqa serve  [--addr :8080] [--db ./promoqa.db] [--config ./configs/promoqa.yaml]
  promoqa diff   --base <run-id> --head <run-id> --out <reports-dir> [--db ./promoqa.db]
  promoqa version
`)
}

// buildRegistry assembles the process-wide rule set: built-ins, then any
// configured YAML packs, then persisted administrative overrides.
func buildRegistry(cfg shared.Config, db *storage.DB, log *slog.Logger) *rules.Registry {
	defs := rules.Builtin()
	if len(cfg.QA.RulePacks) > 0 {
		packRules, err := rulepack.LoadAll(cfg.QA.RulePacks, log)
		if err != nil {
			log.Error("rule pack load failed", "err", err)
			os.Exit(1)
		}
		defs = append(defs, packRules...)
	}
	reg, errs := rules.NewRegistry(defs, log)
	for _, e := range errs {
		log.Warn("rule skipped", "err", e)
	}

	if db != nil {
		settings, err := db.ListRuleSettings()
		if err != nil {
			log.Warn("could not load rule settings", "err", err)
			return reg
		}
		for _, s := range settings {
			if s.Enabled != nil {
				if _, ok := reg.SetEnabled(s.RuleID, *s.Enabled); !ok {
					log.Warn("persisted setting references unknown rule", "rule", s.RuleID)
				}
			}
			if s.Severity != "" {
				reg.SetSeverity(s.RuleID, rules.Severity(s.Severity))
			}
		}
	}
	return reg
}

func openDB(path string, log *slog.Logger) *storage.DB {
	db, err := storage.OpenSQLite(path)
	if err != nil {
		log.Error("db open error", "err", err)
		os.Exit(1)
	}
	if err := db.CreateSchema(); err != nil {
		log.Error("db schema error", "err", err)
		os.Exit(1)
	}
	return db
}

func checkCmd(args []string) {
	fs := flag.NewFlagSet("check", flag.ExitOnError)
	configPath := fs.String("config", "", "Path to YAML config (optional)")
	inPath := fs.String("path", "", "Content file or directory to check")
	channelLabel := fs.String("channel", "", "Channel label (Email, SMS, Web, ...)")
	outDir := fs.String("out", "", "Output directory for reports")
	dbPath := fs.String("db", "", "SQLite database path")
	_ = fs.Parse(args)

	cfg, _ := shared.LoadConfig(*configPath)
	log := shared.InitLogger(cfg.Logging.Format, cfg.Logging.Level)

	// precedence: flags > config > defaults
	if *channelLabel == "" {
		*channelLabel = cfg.QA.DefaultChannel
	}
	if *outDir == "" {
		*outDir = cfg.Reporting.OutDir
	}
	if *dbPath == "" {
		*dbPath = cfg.Database.DSN
	}
	if *inPath == "" {
		fmt.Fprintln(os.Stderr, "check: --path is required")
		os.Exit(2)
	}
	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		fmt.Fprintln(os.Stderr, "check: cannot create out dir:", err)
		os.Exit(1)
	}
	if !channel.Known(*channelLabel) {
		log.Warn("unknown channel label, defaulting to recipient-direct checks", "channel", *channelLabel)
	}

	db := openDB(*dbPath, log)
	defer db.Close()
	reg := buildRegistry(cfg, db, log)

	var docs []content.Document
	if fi, err := os.Stat(*inPath); err == nil && fi.IsDir() {
		docs, err = content.LoadDir(*inPath)
		if err != nil {
			log.Error("load dir error", "err", err)
			os.Exit(1)
		}
	} else {
		doc, err := content.LoadFile(*inPath)
		if err != nil {
			log.Error("load file error", "err", err)
			os.Exit(1)
		}
		docs = []content.Document{doc}
	}
	if len(docs) == 0 {
		fmt.Fprintln(os.Stderr, "check: no checkable files found under", *inPath)
		os.Exit(1)
	}

	dismissals, err := db.ListDismissals(true)
	if err != nil {
		log.Warn("could not load dismissals", "err", err)
	}

	for _, doc := range docs {
		findings := reg.RunChecks(doc.Text, *channelLabel, nil)
		findings, dismissed := rules.ApplyDismissals(findings, dismissals)

		run := qa.Run{
			ID:            uuid.NewString(),
			StartedAt:     time.Now().UTC(),
			Source:        doc.Path,
			Channel:       *channelLabel,
			Profile:       string(channel.Resolve(*channelLabel)),
			EngineVersion: qa.Version,
			Score:         scoring.Score(findings),
			Findings:      findings,
		}
		if err := db.SaveRun(&run); err != nil {
			log.Error("db save run error", "run", run.ID, "err", err)
			os.Exit(1)
		}

		jsonPath, _ := reporting.WriteJSON(run.ID, *outDir, &run)
		htmlPath, _ := reporting.WriteHTML(run.ID, *outDir, &run)
		sum := scoring.Summarize(run.Findings)
		log.Info("check complete",
			"doc", doc.Name,
			"run", run.ID,
			"score", run.Score,
			"critical", sum.Critical,
			"dismissed", dismissed,
		)
		fmt.Printf("Check OK: %s\n  Run: %s\n  Score: %.0f (critical=%d warning=%d info=%d review=%d)\n  JSON: %s\n  HTML: %s\n",
			doc.Name, run.ID, run.Score, sum.Critical, sum.Warning, sum.Info, sum.Advisory, jsonPath, htmlPath)
	}
}

func rulesCmd(args []string) {
	fs := flag.NewFlagSet("rules", flag.ExitOnError)
	configPath := fs.String("config", "", "Path to YAML config (optional)")
	channelLabel := fs.String("channel", "", "Only rules in scope for this channel")
	_ = fs.Parse(args)

	cfg, _ := shared.LoadConfig(*configPath)
	log := shared.InitLogger(cfg.Logging.Format, cfg.Logging.Level)
	reg := buildRegistry(cfg, nil, log)

	var list []rules.Rule
	if *channelLabel != "" {
		list = reg.ListForProfile(channel.Resolve(*channelLabel))
	} else {
		list = reg.ListAll()
	}
	for _, r := range list {
		state := " "
		if !r.Enabled {
			state = "-"
		}
		scope := "all"
		if len(r.Channels) > 0 {
			scope = ""
			for i, c := range r.Channels {
				if i > 0 {
					scope += ","
				}
				scope += string(c)
			}
		}
		fmt.Printf("%s %-28s %-16s %-8s %-7s %s\n", state, r.ID, r.Category, r.Severity, scope, r.Name)
	}
}

func serveCmd(args []string) {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	configPath := fs.String("config", "", "Path to YAML config (optional)")
	addr := fs.String("addr", "", "Listen address")
	dbPath := fs.String("db", "", "SQLite database path")
	_ = fs.Parse(args)

	cfg, _ := shared.LoadConfig(*configPath)
	log := shared.InitLogger(cfg.Logging.Format, cfg.Logging.Level)
	if *addr == "" {
		*addr = cfg.Server.Addr
	}
	if *dbPath == "" {
		*dbPath = cfg.Database.DSN
	}

	db := openDB(*dbPath, log)
	defer db.Close()
	seedAdmin(db, log)
	reg := buildRegistry(cfg, db, log)

	srv := &api.Server{
		DB:              db,
		UserStore:       db,
		Rules:           reg,
		Logger:          log,
		AllowedOrigins:  cfg.Server.AllowedOrigins,
		SessionDuration: time.Duration(cfg.Server.SessionHours) * time.Hour,
	}
	log.Info("serving", "addr", *addr, "rules", reg.Len())
	if err := http.ListenAndServe(*addr, srv.Routes()); err != nil {
		log.Error("server error", "err", err)
		os.Exit(1)
	}
}

// seedAdmin creates the initial admin account on an empty users table, using
// PROMOQA_ADMIN_PASSWORD when set.
func seedAdmin(db *storage.DB, log *slog.Logger) {
	n, err := db.CountUsers()
	if err != nil || n > 0 {
		return
	}
	pw := os.Getenv("PROMOQA_ADMIN_PASSWORD")
	generated := false
	if pw == "" {
		pw, err = security.NewToken(12)
		if err != nil {
			log.Error("admin seed token error", "err", err)
			return
		}
		generated = true
	}
	hash, err := security.HashPassword(pw)
	if err != nil {
		log.Error("admin seed hash error", "err", err)
		return
	}
	if _, err := db.CreateUser("admin", hash, "admin"); err != nil {
		log.Error("admin seed error", "err", err)
		return
	}
	if generated {
		fmt.Printf("Seeded admin user; generated password: %s\n", pw)
	} else {
		log.Info("seeded admin user from PROMOQA_ADMIN_PASSWORD")
	}
}

func diffCmd(args []string) {
	fs := flag.NewFlagSet("diff", flag.ExitOnError)
	configPath := fs.String("config", "", "Path to YAML config (optional)")
	base := fs.String("base", "", "Base run ID")
	head := fs.String("head", "", "Head run ID")
	outDir := fs.String("out", "", "Output directory")
	dbPath := fs.String("db", "", "SQLite database path")
	_ = fs.Parse(args)

	cfg, _ := shared.LoadConfig(*configPath)
	log := shared.InitLogger(cfg.Logging.Format, cfg.Logging.Level)
	if *outDir == "" {
		*outDir = cfg.Reporting.OutDir
	}
	if *dbPath == "" {
		*dbPath = cfg.Database.DSN
	}
	if *base == "" || *head == "" {
		fmt.Fprintln(os.Stderr, "diff: --base and --head are required")
		os.Exit(2)
	}

	db := openDB(*dbPath, log)
	defer db.Close()

	br, err := db.LoadRun(*base)
	if err != nil {
		log.Error("load base run error", "err", err)
		os.Exit(1)
	}
	hr, err := db.LoadRun(*head)
	if err != nil {
		log.Error("load head run error", "err", err)
		os.Exit(1)
	}
	path, err := reporting.WriteDiffJSON(*base, *head, *outDir, &br, &hr)
	if err != nil {
		log.Error("diff write error", "err", err)
		os.Exit(1)
	}
	fmt.Printf("Diff OK\n  %s\n", path)
}
