package verification

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"regexp"

	"craftconnect-be/internal/logger"

	"go.uber.org/zap"
)

var phonePattern = regexp.MustCompile(`^\+?[0-9]{8,15}$`)

type Service interface {
	Issue(ctx context.Context, phone string) error
	Confirm(ctx context.Context, phone, code string) error
}

type service struct {
	store  CodeStore
	sender Sender
}

func NewService(store CodeStore, sender Sender) Service {
	return &service{store: store, sender: sender}
}

func (s *service) Issue(ctx context.Context, phone string) error {
	log := logger.FromCtx(ctx).With(
		zap.String("method", "IssueOTP"),
		zap.String("phone", phone),
	)

	if !phonePattern.MatchString(phone) {
		return ErrInvalidPhone
	}

	code, err := generateCode()
	if err != nil {
		return err
	}

	if err := s.store.Put(ctx, phone, code); err != nil {
		log.Error("failed to store verification code", zap.Error(err))
		return err
	}

	if err := s.sender.Send(ctx, phone, code); err != nil {
		if errors.Is(err, ErrNotImplemented) {
			// No provider wired yet: the code is still stored, so dev
			// environments can read it out of the log.
			log.Warn("sms delivery not implemented, code issued without delivery",
				zap.String("code", code),
			)
			return nil
		}
		log.Error("failed to deliver verification code", zap.Error(err))
		return err
	}

	log.Info("verification code sent")
	return nil
}

func (s *service) Confirm(ctx context.Context, phone, code string) error {
	if !phonePattern.MatchString(phone) {
		return ErrInvalidPhone
	}

	ok, err := s.store.Consume(ctx, phone, code)
	if err != nil {
		return err
	}
	if !ok {
		return ErrCodeMismatch
	}
	return nil
}

func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
