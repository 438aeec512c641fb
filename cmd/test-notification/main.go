package main

// Isolated smoke test for the SMTP notification path. Sends one message
// (optionally with an attachment) to the configured HR mailbox without
// starting the full service.

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/Ryy05/Employee-Assistant-Chatbot-Widget/internal/config"
	"github.com/Ryy05/Employee-Assistant-Chatbot-Widget/internal/email"
	"github.com/Ryy05/Employee-Assistant-Chatbot-Widget/pkg/utils"
	"github.com/subosito/gotenv"
)

func main() {
	attachment := flag.String("attach", "", "Optional attachment path")
	to := flag.String("to", "", "Override recipient (defaults to hr_email)")
	flag.Parse()

	_ = gotenv.Load()

	fmt.Println("=== SMTP Notification Test ===")

	cfg, err := config.Load("configs/config.yaml")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := utils.NewDevelopmentLogger()
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	recipient := *to
	if recipient == "" {
		recipient = cfg.SMTP.HREmail
	}

	if cfg.SMTP.Username == "" || cfg.SMTP.Password == "" {
		fmt.Println("SMTP credentials not set: the sender will run in simulation mode.")
	}

	sender := email.NewSender(email.Config{
		Host:        cfg.SMTP.Host,
		Port:        cfg.SMTP.Port,
		Username:    cfg.SMTP.Username,
		Password:    cfg.SMTP.Password,
		FromAddress: cfg.SMTP.FromAddress,
	}, logger)

	var attachments []string
	if *attachment != "" {
		attachments = append(attachments, *attachment)
	}

	ok := sender.Send(recipient,
		"HR Policy Assistant - notification test",
		"This is a test notification from the HR policy assistant.\nIf you received this, SMTP delivery is working.",
		attachments...)

	if !ok {
		fmt.Println("Delivery reported failure (or simulation mode). See log output above.")
		os.Exit(1)
	}

	fmt.Printf("Notification delivered to %s\n", recipient)
}
