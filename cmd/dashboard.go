package cmd

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/marcus/catalog/internal/config"
	"github.com/marcus/catalog/pkg/dashboard"
)

// runDashboard opens the interactive client. It starts on the app screen
// when a session token is already stored.
func runDashboard(cmd *cobra.Command, args []string) error {
	store, err := openSession()
	if err != nil {
		return report(err)
	}
	defer store.Close()

	m := dashboard.NewModel(dashboard.Options{
		Client:        newClient(store),
		Tokens:        store,
		PageSize:      cfg.PageSize,
		AuditPageSize: cfg.AuditPageSize,
		Timeout:       cfg.RequestTimeout(),
		ChartType:     dashboard.ParseChartType(cfg.ChartType),
		Logger:        logger,
		OnChartTypeChange: func(t dashboard.ChartType) error {
			return config.SetChartType(baseDir, string(t))
		},
	})

	logger.Info("dashboard started", "api_url", cfg.APIURL, "session", store.Path())
	p := tea.NewProgram(m,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithContext(cmd.Context()),
	)
	if _, err := p.Run(); err != nil {
		logger.Error("dashboard exited", "err", err)
		return report(err)
	}
	return nil
}
