package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Wadijet/notifyhub/config"
	"github.com/Wadijet/notifyhub/core/common"
	"github.com/Wadijet/notifyhub/core/crypto"
	"github.com/Wadijet/notifyhub/core/service"
	"github.com/Wadijet/notifyhub/internal/model"
)

// circuitOpenDuration is how long a credential's circuit stays open once its consecutive
// AUTH_ERROR count trips AuthFailureCircuitThreshold (§9 Open Question: auth-failure circuit
// breaker), before the processor tries sending through it again.
const circuitOpenDuration = 5 * time.Minute

// MongoCredentialRepository implements CredentialStore against the credentials collection,
// grounded on §4.4's priority resolution (custom > system-auto > synthesize-from-defaults).
// Secrets are stored encrypted (§3) and decrypted only on the way out of this repository.
type MongoCredentialRepository struct {
	svc *service.BaseServiceMongoImpl[model.Credential]
	cfg *config.Configuration
	box *crypto.Box
}

func NewMongoCredentialRepository(svc *service.BaseServiceMongoImpl[model.Credential], cfg *config.Configuration, box *crypto.Box) *MongoCredentialRepository {
	return &MongoCredentialRepository{svc: svc, cfg: cfg, box: box}
}

// ActiveCredential returns the active custom credential if one exists (no fallback allowed for
// custom credentials); otherwise the active system-auto-generated credential.
func (r *MongoCredentialRepository) ActiveCredential(ctx context.Context, tenantID string, channel model.Channel) (*model.Credential, error) {
	custom, err := r.svc.FindOne(ctx, bson.M{
		"tenant_id": tenantID, "channel": channel, "active": true, "custom": true,
	}, nil)
	if err == nil {
		return r.decrypted(custom)
	}
	if !errors.Is(err, common.ErrNotFound) {
		return nil, err
	}

	auto, err := r.svc.FindOne(ctx, bson.M{
		"tenant_id": tenantID, "channel": channel, "active": true, "custom": false,
	}, nil)
	if err != nil {
		return nil, err
	}
	return r.decrypted(auto)
}

func (r *MongoCredentialRepository) decrypted(cred model.Credential) (*model.Credential, error) {
	plain, err := r.box.DecryptMap(cred.Secrets)
	if err != nil {
		return nil, fmt.Errorf("decrypt credential secrets: %w", err)
	}
	cred.Secrets = plain
	return &cred, nil
}

// SynthesizeDefault builds a system-auto-generated credential from this service's default
// channel settings, persists it, and returns it (§4.4 step 3).
func (r *MongoCredentialRepository) SynthesizeDefault(ctx context.Context, tenantID string, channel model.Channel) (*model.Credential, error) {
	secrets := r.defaultSecrets(channel)
	encrypted, err := r.box.EncryptMap(secrets)
	if err != nil {
		return nil, fmt.Errorf("encrypt default credential secrets: %w", err)
	}
	cred := model.Credential{
		TenantID:  tenantID,
		Channel:   channel,
		Secrets:   encrypted,
		Custom:    false,
		Active:    true,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	saved, err := r.svc.InsertOne(ctx, cred)
	if err != nil {
		return nil, err
	}
	saved.Secrets = secrets
	return &saved, nil
}

// RecordAuthFailure increments a credential's consecutive AUTH_ERROR counter and, once it
// reaches AuthFailureCircuitThreshold, opens the circuit for circuitOpenDuration. Disabled
// (threshold <= 0, the default) is a no-op, matching the feature's default-off config.
func (r *MongoCredentialRepository) RecordAuthFailure(ctx context.Context, tenantID string, channel model.Channel) (*model.Credential, error) {
	if r.cfg.AuthFailureCircuitThreshold <= 0 {
		return nil, nil
	}

	filter := bson.M{"tenant_id": tenantID, "channel": channel, "active": true}
	update := bson.M{"$inc": bson.M{"consecutive_auth_failures": 1}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	cred, err := r.svc.FindOneAndUpdate(ctx, filter, update, opts)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	if cred.ConsecutiveAuthFailures < r.cfg.AuthFailureCircuitThreshold {
		return &cred, nil
	}

	openUntil := time.Now().Add(circuitOpenDuration)
	if _, err := r.svc.UpdateOne(ctx, bson.M{"_id": cred.ID}, bson.M{"$set": bson.M{"circuit_open_until": openUntil}}, nil); err != nil {
		return &cred, err
	}
	cred.CircuitOpenUntil = &openUntil
	return &cred, nil
}

// ResetAuthFailures clears a credential's consecutive AUTH_ERROR count and any open circuit
// after a successful send, so a transient blip doesn't creep the credential toward tripping.
func (r *MongoCredentialRepository) ResetAuthFailures(ctx context.Context, tenantID string, channel model.Channel) error {
	filter := bson.M{"tenant_id": tenantID, "channel": channel, "active": true}
	update := bson.M{"$set": bson.M{"consecutive_auth_failures": 0, "circuit_open_until": nil}}
	_, err := r.svc.UpdateOne(ctx, filter, update, nil)
	if errors.Is(err, common.ErrNotFound) {
		return nil
	}
	return err
}

func (r *MongoCredentialRepository) defaultSecrets(channel model.Channel) map[string]string {
	switch channel {
	case model.ChannelEmail:
		return map[string]string{
			"smtp_host": r.cfg.DefaultSMTPHost,
			"smtp_port": itoa(r.cfg.DefaultSMTPPort),
			"smtp_user": r.cfg.DefaultSMTPUser,
			"smtp_pass": r.cfg.DefaultSMTPPass,
			"smtp_from": r.cfg.DefaultSMTPFrom,
			"smtp_ssl":  boolToStr(r.cfg.DefaultSMTPSSL),
		}
	case model.ChannelSMS:
		return map[string]string{
			"account_sid": r.cfg.DefaultSMSAccountSID,
			"auth_token":  r.cfg.DefaultSMSAuthToken,
			"from_number": r.cfg.DefaultSMSFromNumber,
			"api_url":     r.cfg.DefaultSMSAPIURL,
		}
	case model.ChannelPush:
		return map[string]string{
			"service_account_json": r.cfg.DefaultFCMServiceAccountJSON,
		}
	default:
		return map[string]string{}
	}
}

func itoa(n int) string { return strconv.Itoa(n) }

func boolToStr(b bool) string { return strconv.FormatBool(b) }
