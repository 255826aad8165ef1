// Package scheduler
package scheduler

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/SwipeCast-Vellena/vellena-backend/app/services"
	"github.com/SwipeCast-Vellena/vellena-backend/config"
	"github.com/SwipeCast-Vellena/vellena-backend/models"
	"github.com/SwipeCast-Vellena/vellena-backend/repository"
	"github.com/SwipeCast-Vellena/vellena-backend/utils"
)

// ChannelReconciler periodically retries chat channel creation for approved
// matches whose provisioning attempt failed at approval time. Channels are
// only ever created, never removed.
type ChannelReconciler struct {
	matchRepo      repository.MatchRepository
	modelRepo      repository.ModelProfileRepository
	agencyRepo     repository.AgencyProfileRepository
	accountRepo    repository.AccountRepository
	auditRepo      repository.AuditLogRepository
	channelService services.ChannelService
	logger         *log.Logger
	interval       time.Duration
	batch          int
}

func NewChannelReconciler(
	matchRepo repository.MatchRepository,
	modelRepo repository.ModelProfileRepository,
	agencyRepo repository.AgencyProfileRepository,
	accountRepo repository.AccountRepository,
	auditRepo repository.AuditLogRepository,
	channelService services.ChannelService,
	logger *log.Logger,
	cfg config.SchedulerConfig,
) *ChannelReconciler {
	interval := cfg.ChannelReconcileInterval
	if interval <= 0 {
		interval = time.Minute
	}
	batch := cfg.ChannelReconcileBatch
	if batch <= 0 {
		batch = 50
	}
	if logger == nil {
		logger = log.Default()
	}

	return &ChannelReconciler{
		matchRepo:      matchRepo,
		modelRepo:      modelRepo,
		agencyRepo:     agencyRepo,
		accountRepo:    accountRepo,
		auditRepo:      auditRepo,
		channelService: channelService,
		logger:         logger,
		interval:       interval,
		batch:          batch,
	}
}

// Start launches the reconciler loop in a background goroutine and returns a stop function
func (s *ChannelReconciler) Start(parent context.Context) func() {
	ctx, cancel := context.WithCancel(parent)

	go func() {
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		s.runOnce(ctx)

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.runOnce(ctx)
			}
		}
	}()

	return cancel
}

func (s *ChannelReconciler) runOnce(ctx context.Context) {
	matches, err := s.matchRepo.ListApprovedUnprovisioned(ctx, s.batch)
	if err != nil {
		s.logger.Printf("reconciler: listing unprovisioned matches failed: %v", err)
		return
	}
	if len(matches) == 0 {
		return
	}
	s.logger.Printf("reconciler: retrying channel creation for %d matches", len(matches))

	for _, match := range matches {
		select {
		case <-ctx.Done():
			return
		default:
		}

		if err := s.reconcileMatch(ctx, match); err != nil {
			s.logger.Printf("reconciler: channel for campaign %d model %d still pending: %v",
				match.CampaignID, match.ModelProfileID, err)
			continue
		}
		s.logger.Printf("reconciler: channel created for campaign %d model %d",
			match.CampaignID, match.ModelProfileID)
	}
}

func (s *ChannelReconciler) reconcileMatch(ctx context.Context, match *models.Match) error {
	members, err := s.memberUUIDs(ctx, match)
	if err != nil {
		return err
	}

	_, err = s.channelService.ProvisionChannel(ctx, services.ProvisionChannelInput{
		CampaignID:     match.CampaignID,
		ModelProfileID: match.ModelProfileID,
		MemberUUIDs:    members,
	})
	if err != nil {
		return err
	}

	if err := s.matchRepo.MarkChannelProvisioned(ctx, match.CampaignID, match.ModelProfileID); err != nil {
		return err
	}

	s.recordRetry(ctx, match)
	return nil
}

// memberUUIDs resolves the agency and model account identifiers for the channel roster
func (s *ChannelReconciler) memberUUIDs(ctx context.Context, match *models.Match) ([]string, error) {
	members := make([]string, 0, 2)

	agency, err := s.agencyRepo.ByID(ctx, match.AgencyProfileID)
	if err != nil {
		return nil, err
	}
	if agency != nil {
		account, err := s.accountRepo.ByID(ctx, agency.AccountID)
		if err != nil {
			return nil, err
		}
		if account != nil {
			members = append(members, account.UUID.String())
		}
	}

	profile, err := s.modelRepo.ByID(ctx, match.ModelProfileID)
	if err != nil {
		return nil, err
	}
	if profile != nil {
		account, err := s.accountRepo.ByID(ctx, profile.AccountID)
		if err != nil {
			return nil, err
		}
		if account != nil {
			members = append(members, account.UUID.String())
		}
	}

	return members, nil
}

func (s *ChannelReconciler) recordRetry(ctx context.Context, match *models.Match) {
	description := fmt.Sprintf("channel %s created on retry", services.ChannelKey(match.CampaignID, match.ModelProfileID))
	entry := &models.AuditLog{
		Action:      models.AuditActionChannelProvisionRetried,
		Description: &description,
		Success:     utils.ToPtr(true),
		CreatedAt:   utils.UTCNow(),
	}
	if err := s.auditRepo.Save(ctx, entry); err != nil {
		s.logger.Printf("reconciler: audit write failed: %v", err)
	}
}
