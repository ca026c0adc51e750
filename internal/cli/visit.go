package cli

import (
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/evcraddock/realty/internal/email"
	"github.com/evcraddock/realty/internal/lookup"
	"github.com/evcraddock/realty/internal/property"
	"github.com/evcraddock/realty/internal/user"
	"github.com/evcraddock/realty/internal/visit"
)

// whenLayouts are the accepted visit date formats, tried in order.
var whenLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04",
	"2006-01-02T15:04",
	"2006-01-02",
}

// parseWhen parses a visit date. Dates without a zone are local time.
func parseWhen(s string) (time.Time, error) {
	for _, layout := range whenLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q (use YYYY-MM-DD HH:MM)", s)
}

func newVisitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "visit",
		Short: "Schedule and track property visits",
	}

	cmd.AddCommand(
		newVisitAddCmd(),
		newVisitListCmd(),
		&cobra.Command{
			Use:   "show <id>",
			Short: "Show a visit",
			Args:  cobra.ExactArgs(1),
			RunE:  runVisitShow,
		},
		newVisitStatusCmd(),
		&cobra.Command{
			Use:   "assign <id> <agent-id|none>",
			Short: "Assign an agent to a visit, or clear it with 'none'",
			Args:  cobra.ExactArgs(2),
			RunE:  runVisitAssign,
		},
		&cobra.Command{
			Use:   "reschedule <id> <date>",
			Short: "Move a visit to another date",
			Args:  cobra.ExactArgs(2),
			RunE:  runVisitReschedule,
		},
		&cobra.Command{
			Use:   "remove <id>",
			Short: "Remove a visit",
			Args:  cobra.ExactArgs(1),
			RunE:  runVisitRemove,
		},
	)

	return cmd
}

func newVisitAddCmd() *cobra.Command {
	var agentID, statusID int64

	cmd := &cobra.Command{
		Use:   "add <user-id> <property-id> <date>",
		Short: "Schedule a visit",
		Long: `Schedule a visit to a property. New visits are Pending unless --status is given.

The agent, if given, must be a user with the Agent role.

Date format: YYYY-MM-DD HH:MM (local time) or RFC 3339

Examples:
  realty visit add 3 12 "2026-11-02 15:30"
  realty visit add 3 12 2026-11-02T15:30:00Z --agent 5`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			v := &visit.Visit{}
			if cmd.Flags().Changed("agent") {
				v.AgentID = &agentID
			}
			if cmd.Flags().Changed("status") {
				v.StatusID = &statusID
			}
			return runVisitAdd(cmd, args, v)
		},
	}

	cmd.Flags().Int64Var(&agentID, "agent", 0, "agent user ID")
	cmd.Flags().Int64Var(&statusID, "status", 0, "visit status ID (default: Pending)")

	return cmd
}

func runVisitAdd(cmd *cobra.Command, args []string, v *visit.Visit) error {
	var err error
	if v.UserID, v.PropertyID, err = parseUserProperty(args); err != nil {
		return err
	}
	if v.ScheduledAt, err = parseWhen(args[2]); err != nil {
		return err
	}

	database, err := openDB()
	if err != nil {
		return err
	}
	defer closeDB(database)

	created, err := visit.NewRepository(database).Create(v)
	if err != nil {
		return err
	}
	slog.Info("visit scheduled", "id", created.ID, "property", created.PropertyID, "user", created.UserID)

	if isJSON() {
		return printJSON(cmd.OutOrStdout(), created)
	}
	statuses, err := visitStatuses(database)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Visit scheduled.")
	printVisit(cmd.OutOrStdout(), created, statusName(statuses, created.StatusID))
	return nil
}

func newVisitListCmd() *cobra.Command {
	var userID, agentID, propertyID, statusID int64

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List visits, soonest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var opts visit.ListOptions
			fs := cmd.Flags()
			if fs.Changed("user") {
				opts.UserID = &userID
			}
			if fs.Changed("agent") {
				opts.AgentID = &agentID
			}
			if fs.Changed("property") {
				opts.PropertyID = &propertyID
			}
			if fs.Changed("status") {
				opts.StatusID = &statusID
			}
			return runVisitList(cmd, opts)
		},
	}

	cmd.Flags().Int64Var(&userID, "user", 0, "filter by requesting user ID")
	cmd.Flags().Int64Var(&agentID, "agent", 0, "filter by agent user ID")
	cmd.Flags().Int64Var(&propertyID, "property", 0, "filter by property ID")
	cmd.Flags().Int64Var(&statusID, "status", 0, "filter by visit status ID")

	return cmd
}

func runVisitList(cmd *cobra.Command, opts visit.ListOptions) error {
	database, err := openDB()
	if err != nil {
		return err
	}
	defer closeDB(database)

	visits, err := visit.NewRepository(database).List(opts)
	if err != nil {
		return err
	}

	if isJSON() {
		return printJSON(cmd.OutOrStdout(), visits)
	}
	statuses, err := visitStatuses(database)
	if err != nil {
		return err
	}
	return printVisitTable(cmd.OutOrStdout(), visits, statuses)
}

func runVisitShow(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0], "visit")
	if err != nil {
		return err
	}

	database, err := openDB()
	if err != nil {
		return err
	}
	defer closeDB(database)

	v, err := visit.NewRepository(database).GetByID(id)
	if err != nil {
		return err
	}

	if isJSON() {
		return printJSON(cmd.OutOrStdout(), v)
	}
	statuses, err := visitStatuses(database)
	if err != nil {
		return err
	}
	printVisit(cmd.OutOrStdout(), v, statusName(statuses, v.StatusID))
	return nil
}

func newVisitStatusCmd() *cobra.Command {
	var notify bool

	cmd := &cobra.Command{
		Use:   "status <id> <status>",
		Short: "Change a visit's status",
		Long: `Change a visit's status. The status is a name or ID from 'realty lookup visit-status'.

With --notify the requester is emailed after the change is saved.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runVisitStatus(cmd, args, notify)
		},
	}

	cmd.Flags().BoolVar(&notify, "notify", false, "email the requester about the change")

	return cmd
}

func runVisitStatus(cmd *cobra.Command, args []string, notify bool) error {
	id, err := parseID(args[0], "visit")
	if err != nil {
		return err
	}

	database, err := openDB()
	if err != nil {
		return err
	}
	defer closeDB(database)

	statuses, err := visitStatuses(database)
	if err != nil {
		return err
	}
	statusID, err := resolveStatus(statuses, args[1])
	if err != nil {
		return err
	}

	repo := visit.NewRepository(database)
	if err := repo.UpdateStatus(id, statusID); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "✓ Visit #%d is now %s\n", id, statuses[statusID])

	if !notify {
		return nil
	}
	if err := notifyRequester(database, repo, id, statuses[statusID]); err != nil {
		return fmt.Errorf("status saved but notification failed: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), "✓ Requester notified.")
	return nil
}

// notifyRequester emails the user who requested the visit.
func notifyRequester(database *sql.DB, repo *visit.Repository, id int64, status string) error {
	smtpCfg := email.SMTPConfig(cfg.SMTP)
	if !smtpCfg.IsConfigured() {
		return fmt.Errorf("SMTP not configured (set REALTY_SMTP_HOST and REALTY_SMTP_FROM)")
	}

	v, err := repo.GetByID(id)
	if err != nil {
		return err
	}
	u, err := user.NewRepository(database).GetByID(v.UserID)
	if err != nil {
		return err
	}
	p, err := property.NewRepository(database).GetByID(v.PropertyID)
	if err != nil {
		return err
	}

	subject := email.NoticeSubject(v, status)
	body := email.FormatVisitNotice(v, p, status)
	if err := email.Send(smtpCfg, []string{u.Email}, subject, body); err != nil {
		return err
	}

	slog.Info("visit notice sent", "visit", id, "to", u.Email)
	return nil
}

// resolveStatus accepts a status ID or a case-insensitive status name.
func resolveStatus(statuses map[int64]string, s string) (int64, error) {
	if id, err := parseID(s, "status"); err == nil {
		if _, ok := statuses[id]; ok {
			return id, nil
		}
	}
	for id, name := range statuses {
		if strings.EqualFold(name, s) {
			return id, nil
		}
	}
	return 0, fmt.Errorf("unknown visit status: %s", s)
}

// visitStatuses returns visit status names by ID.
func visitStatuses(database *sql.DB) (map[int64]string, error) {
	entries, err := lookup.NewRepository(database).List(lookup.VisitStatuses)
	if err != nil {
		return nil, err
	}
	statuses := make(map[int64]string, len(entries))
	for _, e := range entries {
		statuses[e.ID] = e.Description
	}
	return statuses, nil
}

func runVisitAssign(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0], "visit")
	if err != nil {
		return err
	}

	var agentID *int64
	if args[1] != "none" {
		a, err := parseID(args[1], "agent")
		if err != nil {
			return err
		}
		agentID = &a
	}

	database, err := openDB()
	if err != nil {
		return err
	}
	defer closeDB(database)

	if err := visit.NewRepository(database).AssignAgent(id, agentID); err != nil {
		return err
	}

	if agentID == nil {
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Visit #%d unassigned.\n", id)
		return nil
	}
	fmt.Fprintf(cmd.OutOrStdout(), "✓ Visit #%d assigned to agent #%d\n", id, *agentID)
	return nil
}

func runVisitReschedule(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0], "visit")
	if err != nil {
		return err
	}
	at, err := parseWhen(args[1])
	if err != nil {
		return err
	}

	database, err := openDB()
	if err != nil {
		return err
	}
	defer closeDB(database)

	if err := visit.NewRepository(database).Reschedule(id, at); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "✓ Visit #%d moved to %s\n", id, formatWhen(at))
	return nil
}

func runVisitRemove(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0], "visit")
	if err != nil {
		return err
	}

	database, err := openDB()
	if err != nil {
		return err
	}
	defer closeDB(database)

	if err := visit.NewRepository(database).Delete(id); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "✓ Visit #%d removed.\n", id)
	return nil
}
