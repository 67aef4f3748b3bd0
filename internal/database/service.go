package database

import (
	"github.com/ourlog/ourlog/internal/database/service"
	"github.com/ourlog/ourlog/internal/setup/config"
	"github.com/redis/rueidis"
	"go.uber.org/zap"
)

// Service provides access to all business logic services.
type Service struct {
	ban        *service.BanService
	escalation *service.EscalationService
	report     *service.ReportService
}

// NewService creates a new service instance with all services.
func NewService(
	repository *Repository, statusCache rueidis.Client, trustCfg *config.Trust, logger *zap.Logger,
) *Service {
	userModel := repository.User()
	reportModel := repository.Report()
	banModel := repository.Ban()

	banService := service.NewBan(banModel, userModel, statusCache, logger)
	escalationService := service.NewEscalation(reportModel, banService, trustCfg, logger)

	return &Service{
		ban:        banService,
		escalation: escalationService,
		report:     service.NewReport(reportModel, userModel, escalationService, logger),
	}
}

// Ban returns the ban service.
func (s *Service) Ban() *service.BanService {
	return s.ban
}

// Escalation returns the escalation service.
func (s *Service) Escalation() *service.EscalationService {
	return s.escalation
}

// Report returns the report service.
func (s *Service) Report() *service.ReportService {
	return s.report
}
