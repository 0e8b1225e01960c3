package tokenfakerepo

import (
	"context"
	"sort"
	"sync"

	"github.com/Tracktor/zoho-crm/internal/errors"
	"github.com/Tracktor/zoho-crm/token"
)

var _ token.Repo = (*FakeTokenRepo)(nil)

// FakeTokenRepo keeps tokens in memory as JSON so that stored tokens don't
// share state with the caller's Token.
type FakeTokenRepo struct {
	tokens map[string][]byte
	lock   sync.RWMutex
}

func NewFakeTokensRepo() *FakeTokenRepo {
	return &FakeTokenRepo{
		tokens: make(map[string][]byte),
	}
}

func (tr *FakeTokenRepo) Upsert(_ context.Context, key string, t *token.Token) error {
	if key == "" {
		return errors.ErrInvalidKey
	}
	data, err := token.MarshalRecord(t)
	if err != nil {
		return err
	}

	tr.lock.Lock()
	defer tr.lock.Unlock()
	tr.tokens[key] = data
	return nil
}

func (tr *FakeTokenRepo) Delete(_ context.Context, key string) error {
	tr.lock.Lock()
	defer tr.lock.Unlock()

	if _, ok := tr.tokens[key]; !ok {
		return errors.ErrTokenNotFound
	}
	delete(tr.tokens, key)
	return nil
}

func (tr *FakeTokenRepo) Get(_ context.Context, key string) (*token.Token, error) {
	tr.lock.RLock()
	data, ok := tr.tokens[key]
	tr.lock.RUnlock()

	if !ok {
		return nil, errors.ErrTokenNotFound
	}
	return token.UnmarshalRecord(data)
}

// Keys lists the stored keys in sorted order.
func (tr *FakeTokenRepo) Keys() []string {
	tr.lock.RLock()
	defer tr.lock.RUnlock()

	keys := make([]string, 0, len(tr.tokens))
	for k := range tr.tokens {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
