package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/obrienmichael/personal-crm/internal/config"
	"github.com/obrienmichael/personal-crm/internal/engine"
	"github.com/obrienmichael/personal-crm/internal/store"
)

// openEngine opens the store for direct CLI commands.
func openEngine() (*engine.Engine, *store.DB, error) {
	cfg, _ := config.Load()
	db, err := openDB(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("open db: %w", err)
	}
	return engine.New(db), db, nil
}

func fmtMS(ms int64) string {
	return time.UnixMilli(ms).Local().Format("2006-01-02 15:04")
}

func fmtLast(ms *int64) string {
	if ms == nil {
		return "never"
	}
	return fmtMS(*ms)
}

// --- log command ---

var (
	logDirection string
	logDuration  int64
	logSubject   string
	logNotes     string
	logWhen      string
)

var logCmd = &cobra.Command{
	Use:   "log [contact name] [interaction type]",
	Short: "Log an interaction with a contact",
	Long:  "Log an interaction. Creates the contact if it doesn't exist. Types: phone_call, facetime_audio, facetime_video, sms, imessage, email, calendar_meeting.",
	Args:  cobra.ExactArgs(2),
	RunE:  runLog,
}

func runLog(cmd *cobra.Command, args []string) error {
	eng, db, err := openEngine()
	if err != nil {
		return err
	}
	defer db.Close()

	req := engine.RecordRequest{
		ContactName:     args[0],
		InteractionType: args[1],
		Direction:       logDirection,
		Subject:         logSubject,
		Notes:           logNotes,
	}
	if cmd.Flags().Changed("duration") {
		req.DurationSeconds = &logDuration
	}
	if logWhen != "" {
		ts, err := time.Parse(time.RFC3339, logWhen)
		if err != nil {
			return fmt.Errorf("--when must be RFC3339: %w", err)
		}
		req.OccurredAt = &ts
	}

	interaction, contact, err := eng.RecordInteraction(req)
	if err != nil {
		return err
	}

	fmt.Printf("Logged %s with %s at %s\n", interaction.TypeName, contact.Name, fmtMS(interaction.OccurredAt))
	return nil
}

// --- contacts command ---

var contactsCmd = &cobra.Command{
	Use:   "contacts",
	Short: "List contacts by most recent interaction",
	RunE:  runContacts,
}

func runContacts(cmd *cobra.Command, args []string) error {
	eng, db, err := openEngine()
	if err != nil {
		return err
	}
	defer db.Close()

	contacts, err := eng.ListContacts()
	if err != nil {
		return err
	}
	if len(contacts) == 0 {
		fmt.Println("No contacts yet. Log an interaction first.")
		return nil
	}

	for _, c := range contacts {
		fmt.Printf("%-24s %-12s last: %s\n", c.Name, c.RelationshipType, fmtLast(c.LastInteraction))
	}
	return nil
}

// --- overdue command ---

var overdueDays int

var overdueCmd = &cobra.Command{
	Use:   "overdue",
	Short: "List contacts overdue for a check-in",
	RunE:  runOverdue,
}

func runOverdue(cmd *cobra.Command, args []string) error {
	eng, db, err := openEngine()
	if err != nil {
		return err
	}
	defer db.Close()

	overdue, err := eng.ListOverdue(overdueDays)
	if err != nil {
		return err
	}
	if len(overdue) == 0 {
		fmt.Printf("Nobody is overdue at the %d-day threshold.\n", overdueDays)
		return nil
	}

	for _, oc := range overdue {
		if oc.DaysSinceContact == nil {
			fmt.Printf("%-24s never contacted\n", oc.Name)
		} else {
			fmt.Printf("%-24s %d days since contact\n", oc.Name, *oc.DaysSinceContact)
		}
	}
	return nil
}

// --- recent command ---

var recentLimit int

var recentCmd = &cobra.Command{
	Use:   "recent",
	Short: "Show recent interactions across all contacts",
	RunE:  runRecent,
}

func runRecent(cmd *cobra.Command, args []string) error {
	eng, db, err := openEngine()
	if err != nil {
		return err
	}
	defer db.Close()

	items, err := eng.RecentInteractions(recentLimit)
	if err != nil {
		return err
	}
	if len(items) == 0 {
		fmt.Println("No interactions logged yet.")
		return nil
	}

	for _, item := range items {
		line := fmt.Sprintf("%s  %-20s %s", fmtMS(item.OccurredAt), item.ContactName, item.TypeDescription)
		if item.Direction != "" {
			line += " (" + item.Direction + ")"
		}
		fmt.Println(line)
	}
	return nil
}

// --- stats command ---

var statsCmd = &cobra.Command{
	Use:   "stats [contact name]",
	Short: "Show engagement statistics for a contact",
	Args:  cobra.ExactArgs(1),
	RunE:  runStats,
}

func runStats(cmd *cobra.Command, args []string) error {
	eng, db, err := openEngine()
	if err != nil {
		return err
	}
	defer db.Close()

	// The CLI looks contacts up by name; the API uses ids.
	contact, err := db.GetContactByName(args[0])
	if err != nil {
		return err
	}
	if contact == nil {
		return fmt.Errorf("no contact named %q", args[0])
	}

	stats, err := eng.Stats(contact.ID)
	if err != nil {
		return err
	}

	fmt.Printf("%s: %d interactions (outgoing %d, incoming %d)\n",
		stats.Name, stats.Total, stats.Outgoing, stats.Incoming)
	if stats.First != nil {
		fmt.Printf("first: %s\n", stats.First.Local().Format("2006-01-02"))
	}
	if stats.Last != nil {
		fmt.Printf("last:  %s\n", stats.Last.Local().Format("2006-01-02"))
	}
	if stats.AvgDaysBetween != nil {
		fmt.Printf("avg days between: %.1f\n", *stats.AvgDaysBetween)
	}
	return nil
}

func init() {
	logCmd.Flags().StringVarP(&logDirection, "direction", "d", "", "incoming or outgoing")
	logCmd.Flags().Int64Var(&logDuration, "duration", 0, "Duration in seconds")
	logCmd.Flags().StringVarP(&logSubject, "subject", "s", "", "Subject line")
	logCmd.Flags().StringVarP(&logNotes, "notes", "m", "", "Free-form notes")
	logCmd.Flags().StringVar(&logWhen, "when", "", "Occurrence time (RFC3339, default now)")

	overdueCmd.Flags().IntVarP(&overdueDays, "days", "n", 30, "Day threshold")
	recentCmd.Flags().IntVarP(&recentLimit, "limit", "n", engine.DefaultRecentLimit, "Maximum number of results")
}
