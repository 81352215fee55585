package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"net/smtp"
	"time"

	"ticwallet/internal/logger"
	"ticwallet/internal/metrics"

	"github.com/redis/go-redis/v9"
)

const (
	QueueKey       = "notifications"
	FailedQueueKey = "notifications:failed"
	maxTries       = 3
)

const (
	TypeWelcome       = "welcome"
	TypeTransferIn    = "transfer_received"
	TypeReferral      = "referral_joined"
	TypeFundingStatus = "funding_status"
)

type Job struct {
	Type    string    `json:"type"`
	To      string    `json:"to"`
	Subject string    `json:"subject"`
	Body    string    `json:"body"`
	Tries   int       `json:"tries"`
	Created time.Time `json:"created"`
}

// Mailer delivers one rendered message.
type Mailer interface {
	Deliver(job Job) error
}

type SMTPConfig struct {
	From     string
	FromName string
	Host     string
	Port     string
	User     string
	Pass     string
}

type smtpMailer struct {
	cfg SMTPConfig
}

func NewSMTPMailer(cfg SMTPConfig) Mailer {
	return &smtpMailer{cfg: cfg}
}

func (m *smtpMailer) Deliver(job Job) error {
	message := fmt.Sprintf("From: %s <%s>\r\n", m.cfg.FromName, m.cfg.From)
	message += fmt.Sprintf("To: %s\r\n", job.To)
	message += fmt.Sprintf("Subject: %s\r\n", job.Subject)
	message += "\r\n" + job.Body

	var auth smtp.Auth
	if m.cfg.User != "" && m.cfg.Pass != "" {
		auth = smtp.PlainAuth("", m.cfg.User, m.cfg.Pass, m.cfg.Host)
	}

	return smtp.SendMail(m.cfg.Host+":"+m.cfg.Port, auth, m.cfg.From, []string{job.To}, []byte(message))
}

// Service queues notifications in Redis and drains them with Start.
// Enqueueing never blocks a money movement on mail delivery.
type Service struct {
	redis      *redis.Client
	mailer     Mailer
	retryDelay time.Duration
	pollWait   time.Duration
}

func New(rdb *redis.Client, mailer Mailer) *Service {
	return &Service{
		redis:      rdb,
		mailer:     mailer,
		retryDelay: 5 * time.Second,
		pollWait:   2 * time.Second,
	}
}

func (s *Service) enqueue(ctx context.Context, job Job) error {
	job.Created = time.Now()

	data, err := json.Marshal(job)
	if err != nil {
		return err
	}

	if err := s.redis.LPush(ctx, QueueKey, data).Err(); err != nil {
		logger.Error("notification not queued", "type", job.Type, "to", job.To, "error", err)
		metrics.RecordNotification(job.Type, "enqueue_failed")
		return err
	}

	metrics.RecordNotification(job.Type, "queued")
	logger.Debug("notification queued", "type", job.Type, "to", job.To)
	return nil
}

func (s *Service) Start(ctx context.Context) {
	logger.Info("notification worker started")

	for {
		select {
		case <-ctx.Done():
			logger.Info("notification worker stopped")
			return
		default:
			s.processNext(ctx)
		}
	}
}

// processNext handles at most one job. It reports whether a job was taken.
func (s *Service) processNext(ctx context.Context) bool {
	result, err := s.redis.BRPop(ctx, s.pollWait, QueueKey).Result()
	if err != nil {
		return false
	}

	var job Job
	if err := json.Unmarshal([]byte(result[1]), &job); err != nil {
		logger.Error("malformed notification dropped", "error", err)
		return true
	}

	job.Tries++
	if err := s.mailer.Deliver(job); err != nil {
		logger.Warn("notification delivery failed", "type", job.Type, "to", job.To, "attempt", job.Tries, "error", err)

		if job.Tries < maxTries {
			s.requeue(ctx, job)
		} else {
			s.saveFailed(ctx, job, err)
		}
		return true
	}

	metrics.RecordNotification(job.Type, "sent")
	logger.Info("notification sent", "type", job.Type, "to", job.To)
	return true
}

func (s *Service) requeue(ctx context.Context, job Job) {
	if s.retryDelay > 0 {
		select {
		case <-ctx.Done():
		case <-time.After(s.retryDelay):
		}
	}
	data, _ := json.Marshal(job)
	s.redis.LPush(context.WithoutCancel(ctx), QueueKey, data)
}

func (s *Service) saveFailed(ctx context.Context, job Job, cause error) {
	failed := map[string]interface{}{
		"job":   job,
		"error": cause.Error(),
		"time":  time.Now(),
	}
	data, _ := json.Marshal(failed)
	s.redis.LPush(context.WithoutCancel(ctx), FailedQueueKey, data)
	metrics.RecordNotification(job.Type, "failed")
	logger.Error("notification moved to failed queue", "type", job.Type, "to", job.To)
}

func (s *Service) QueueLength(ctx context.Context) int64 {
	length, _ := s.redis.LLen(ctx, QueueKey).Result()
	return length
}

func (s *Service) Close() error {
	return s.redis.Close()
}
