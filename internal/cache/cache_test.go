package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Wadijet/notifyhub/internal/model"
)

type fakeIdentity struct {
	branding *model.TenantBranding
	err      error
	calls    int
}

func (f *fakeIdentity) FetchBranding(ctx context.Context, tenantID string) (*model.TenantBranding, error) {
	f.calls++
	return f.branding, f.err
}

type fakeCredStore struct {
	active      *model.Credential
	activeErr   error
	synthesized *model.Credential
	synthErr    error
	activeCalls int

	failures int
	circuit  *time.Time
	resets   int
}

func (f *fakeCredStore) ActiveCredential(ctx context.Context, tenantID string, channel model.Channel) (*model.Credential, error) {
	f.activeCalls++
	return f.active, f.activeErr
}

func (f *fakeCredStore) SynthesizeDefault(ctx context.Context, tenantID string, channel model.Channel) (*model.Credential, error) {
	return f.synthesized, f.synthErr
}

func (f *fakeCredStore) RecordAuthFailure(ctx context.Context, tenantID string, channel model.Channel) (*model.Credential, error) {
	f.failures++
	if f.failures >= 3 {
		t := time.Now().Add(5 * time.Minute)
		f.circuit = &t
	}
	return f.active, nil
}

func (f *fakeCredStore) ResetAuthFailures(ctx context.Context, tenantID string, channel model.Channel) error {
	f.resets++
	f.failures = 0
	f.circuit = nil
	return nil
}

func TestCredentialReturnsActiveWithoutSynthesizing(t *testing.T) {
	store := &fakeCredStore{active: &model.Credential{TenantID: "t1", Channel: model.ChannelEmail}}
	c := New(&fakeIdentity{}, store, time.Minute, time.Second, nil)

	cred, err := c.Credential(context.Background(), "t1", model.ChannelEmail)
	if err != nil || cred == nil {
		t.Fatalf("got cred=%v err=%v", cred, err)
	}
	if store.activeCalls != 1 {
		t.Fatalf("expected 1 ActiveCredential call, got %d", store.activeCalls)
	}

	// second call should hit the cache, not ActiveCredential again
	if _, err := c.Credential(context.Background(), "t1", model.ChannelEmail); err != nil {
		t.Fatal(err)
	}
	if store.activeCalls != 1 {
		t.Fatalf("expected cache hit, ActiveCredential called %d times", store.activeCalls)
	}
}

func TestCredentialFallsBackToSynthesizeDefault(t *testing.T) {
	store := &fakeCredStore{
		activeErr:   errors.New("not found"),
		synthesized: &model.Credential{TenantID: "t1", Channel: model.ChannelSMS},
	}
	c := New(&fakeIdentity{}, store, time.Minute, time.Second, nil)

	cred, err := c.Credential(context.Background(), "t1", model.ChannelSMS)
	if err != nil || cred == nil {
		t.Fatalf("got cred=%v err=%v", cred, err)
	}
}

func TestCredentialCachesNegativeResult(t *testing.T) {
	store := &fakeCredStore{
		activeErr: errors.New("not found"),
		synthErr:  errors.New("synth failed"),
	}
	c := New(&fakeIdentity{}, store, time.Minute, time.Hour, nil)

	if _, err := c.Credential(context.Background(), "t1", model.ChannelPush); err == nil {
		t.Fatal("expected error")
	}
	if _, err := c.Credential(context.Background(), "t1", model.ChannelPush); err == nil {
		t.Fatal("expected cached negative error")
	}
	if store.activeCalls != 1 {
		t.Fatalf("expected the miss to be cached, ActiveCredential called %d times", store.activeCalls)
	}
}

func TestBrandingFallsBackToDefaultOnFetchError(t *testing.T) {
	c := New(&fakeIdentity{err: errors.New("identity unreachable")}, &fakeCredStore{}, time.Minute, time.Second, nil)
	b, err := c.Branding(context.Background(), "tenant-xyz")
	if err != nil {
		t.Fatalf("Branding should not surface identity errors, got %v", err)
	}
	if b.TenantID != "tenant-xyz" {
		t.Fatalf("got %+v", b)
	}
}

func TestInvalidateDropsCachedCredential(t *testing.T) {
	store := &fakeCredStore{active: &model.Credential{TenantID: "t1", Channel: model.ChannelEmail}}
	c := New(&fakeIdentity{}, store, time.Minute, time.Second, nil)

	if _, err := c.Credential(context.Background(), "t1", model.ChannelEmail); err != nil {
		t.Fatal(err)
	}
	c.Invalidate(context.Background(), "t1", model.ChannelEmail)
	if _, err := c.Credential(context.Background(), "t1", model.ChannelEmail); err != nil {
		t.Fatal(err)
	}
	if store.activeCalls != 2 {
		t.Fatalf("expected invalidation to force a re-fetch, ActiveCredential called %d times", store.activeCalls)
	}
}

func TestRecordAuthFailureInvalidatesCachedCredential(t *testing.T) {
	store := &fakeCredStore{active: &model.Credential{TenantID: "t1", Channel: model.ChannelPush}}
	c := New(&fakeIdentity{}, store, time.Minute, time.Second, nil)

	if _, err := c.Credential(context.Background(), "t1", model.ChannelPush); err != nil {
		t.Fatal(err)
	}
	c.RecordAuthFailure(context.Background(), "t1", model.ChannelPush)
	if store.failures != 1 {
		t.Fatalf("expected the failure store to be ticked, got %d", store.failures)
	}
	if _, err := c.Credential(context.Background(), "t1", model.ChannelPush); err != nil {
		t.Fatal(err)
	}
	if store.activeCalls != 2 {
		t.Fatalf("expected RecordAuthFailure to invalidate the cache, ActiveCredential called %d times", store.activeCalls)
	}
}

func TestResetAuthFailuresInvalidatesCachedCredential(t *testing.T) {
	store := &fakeCredStore{active: &model.Credential{TenantID: "t1", Channel: model.ChannelEmail}, failures: 2}
	c := New(&fakeIdentity{}, store, time.Minute, time.Second, nil)

	if _, err := c.Credential(context.Background(), "t1", model.ChannelEmail); err != nil {
		t.Fatal(err)
	}
	c.ResetAuthFailures(context.Background(), "t1", model.ChannelEmail)
	if store.failures != 0 || store.resets != 1 {
		t.Fatalf("expected reset to clear the failure count, got failures=%d resets=%d", store.failures, store.resets)
	}
}
