// Command promomail sends a promotional email to every active user who opted
// in to promotional mail.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"boutique/config"
	"boutique/internal/database"
	"boutique/internal/repository"
	"boutique/pkg/mailer"
)

func main() {
	subject := flag.String("subject", "", "email subject (required)")
	text := flag.String("text", "", "plain text body; {name} is replaced with the recipient's name")
	htmlFile := flag.String("html", "", "path to an HTML body")
	dryRun := flag.Bool("dry-run", false, "log recipients without sending")
	flag.Parse()

	if *subject == "" || (*text == "" && *htmlFile == "") {
		flag.Usage()
		os.Exit(2)
	}
	campaign := mailer.Campaign{Subject: *subject, Text: *text}
	if *htmlFile != "" {
		body, err := os.ReadFile(*htmlFile)
		if err != nil {
			log.Fatalf("read html: %v", err)
		}
		campaign.HTML = string(body)
	}

	cfg := config.Load()
	db, err := database.NewDB(&cfg.Database, false)
	if err != nil {
		log.Fatalf("database: %v", err)
	}

	var sender mailer.Sender = mailer.LogSender{}
	if !*dryRun {
		sg, err := mailer.NewSendGrid(cfg.Mail.SendGridAPIKey, cfg.Mail.FromName, cfg.Mail.FromAddress)
		if err != nil {
			log.Fatalf("mail: %v", err)
		}
		sender = sg
	}

	users, err := repository.NewUserRepository(db).PromoRecipients()
	if err != nil {
		log.Fatalf("recipients: %v", err)
	}
	recipients := make([]mailer.Recipient, len(users))
	for i, u := range users {
		name := u.FullName()
		if name == "" {
			name = u.Username
		}
		recipients[i] = mailer.Recipient{Name: name, Email: u.Email}
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	sent, err := mailer.Broadcast(ctx, sender, recipients, campaign)
	log.Printf("[mail] sent %d of %d", sent, len(recipients))
	if err != nil {
		log.Fatalf("[mail] failures: %v", err)
	}
}
