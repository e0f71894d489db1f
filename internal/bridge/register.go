package bridge

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/Cgriz365/inkbridge/internal/credstore"
	"github.com/Cgriz365/inkbridge/internal/logging"
)

// SetupEndpoint is the registration resource.
const SetupEndpoint = "/setup"

// Registration results recorded in metrics.
const (
	registrationSuccess  = "success"
	registrationFailed   = "failed"
	registrationRejected = "rejected"
)

// Register exchanges the device id for an API key, a uid and a friendly name, and
// persists all three. Nothing is persisted on failure.
func (b *Bridge) Register(ctx context.Context) error {
	if b.DeviceID() == "" {
		return &Error{
			Type:    ErrTypeIdentityUnavailable,
			Message: "device id is required to register",
		}
	}

	resp := b.Get(ctx, SetupEndpoint)
	if !resp.OK() {
		b.metrics.ObserveRegistration(registrationFailed)
		logging.Warn("Registration request failed", zap.String("outcome", resp.Outcome.String()))
		return &Error{
			Type:       ErrTypeRegistrationFailed,
			Message:    "registration request did not succeed: " + resp.Outcome.String(),
			StatusCode: resp.Outcome.Code,
			Outcome:    resp.Outcome,
			Err:        resp.Err(),
		}
	}

	if status := resp.String("status"); status != "success" {
		message := resp.String("message")
		b.metrics.ObserveRegistration(registrationRejected)
		logging.Warn("Registration rejected",
			zap.String("status", status),
			zap.String("message", message),
		)
		return &Error{
			Type:    ErrTypeRegistrationRejected,
			Message: message,
			Outcome: resp.Outcome,
		}
	}

	apiKey := resp.String("api_key")
	friendly := resp.String("friendly_user_id")
	uid := resp.String("uid")

	b.mu.Lock()
	b.apiKey = apiKey
	b.friendlyName = friendly
	b.uid = uid
	b.mu.Unlock()

	var errs []error
	for _, rec := range []struct{ key, value string }{
		{credstore.KeyAPIKey, apiKey},
		{credstore.KeyFriendlyUser, friendly},
		{credstore.KeyUID, uid},
	} {
		if err := b.store.Save(rec.key, rec.value); err != nil {
			errs = append(errs, err)
		}
	}
	if err := errors.Join(errs...); err != nil {
		logging.Warn("Registration succeeded but credentials were not persisted", zap.Error(err))
	}

	b.metrics.ObserveRegistration(registrationSuccess)
	logging.Info("Registration successful",
		zap.String("friendly_user", friendly),
		zap.String("uid", uid),
		zap.String("api_key", logging.Redact(apiKey)),
	)
	return nil
}
