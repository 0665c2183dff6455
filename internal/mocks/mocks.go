// Package mocks holds testify mocks for the ports interfaces.
package mocks

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"
	"weatherlog.app/internal/ports"
)

type testingT interface {
	mock.TestingT
	Cleanup(func())
}

func register(m *mock.Mock, t testingT) {
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
}

// UserRepository mocks ports.UserRepository
type UserRepository struct {
	mock.Mock
}

func NewUserRepository(t testingT) *UserRepository {
	m := &UserRepository{}
	register(&m.Mock, t)
	return m
}

func (m *UserRepository) CreateWithToken(ctx context.Context, user *ports.UserData, token *ports.TokenData) error {
	args := m.Called(ctx, user, token)
	return args.Error(0)
}

func (m *UserRepository) FindByID(ctx context.Context, id uint) (*ports.UserData, error) {
	args := m.Called(ctx, id)
	user, _ := args.Get(0).(*ports.UserData)
	return user, args.Error(1)
}

func (m *UserRepository) FindByUsername(ctx context.Context, username string) (*ports.UserData, error) {
	args := m.Called(ctx, username)
	user, _ := args.Get(0).(*ports.UserData)
	return user, args.Error(1)
}

// TokenRepository mocks ports.TokenRepository
type TokenRepository struct {
	mock.Mock
}

func NewTokenRepository(t testingT) *TokenRepository {
	m := &TokenRepository{}
	register(&m.Mock, t)
	return m
}

func (m *TokenRepository) Create(ctx context.Context, token *ports.TokenData) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

func (m *TokenRepository) FindByKey(ctx context.Context, key string) (*ports.TokenData, error) {
	args := m.Called(ctx, key)
	token, _ := args.Get(0).(*ports.TokenData)
	return token, args.Error(1)
}

func (m *TokenRepository) FindByUserID(ctx context.Context, userID uint) (*ports.TokenData, error) {
	args := m.Called(ctx, userID)
	token, _ := args.Get(0).(*ports.TokenData)
	return token, args.Error(1)
}

func (m *TokenRepository) DeleteByUserID(ctx context.Context, userID uint) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

// SearchHistoryRepository mocks ports.SearchHistoryRepository
type SearchHistoryRepository struct {
	mock.Mock
}

func NewSearchHistoryRepository(t testingT) *SearchHistoryRepository {
	m := &SearchHistoryRepository{}
	register(&m.Mock, t)
	return m
}

func (m *SearchHistoryRepository) Create(ctx context.Context, record *ports.SearchRecordData) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *SearchHistoryRepository) ListByOwner(ctx context.Context, ownerID uint) ([]*ports.SearchRecordData, error) {
	args := m.Called(ctx, ownerID)
	records, _ := args.Get(0).([]*ports.SearchRecordData)
	return records, args.Error(1)
}

func (m *SearchHistoryRepository) FindByIDForOwner(ctx context.Context, id, ownerID uint) (*ports.SearchRecordData, error) {
	args := m.Called(ctx, id, ownerID)
	record, _ := args.Get(0).(*ports.SearchRecordData)
	return record, args.Error(1)
}

// PasswordHasher mocks ports.PasswordHasher
type PasswordHasher struct {
	mock.Mock
}

func NewPasswordHasher(t testingT) *PasswordHasher {
	m := &PasswordHasher{}
	register(&m.Mock, t)
	return m
}

func (m *PasswordHasher) Hash(password string) (string, error) {
	args := m.Called(password)
	return args.String(0), args.Error(1)
}

func (m *PasswordHasher) Compare(hash, password string) error {
	args := m.Called(hash, password)
	return args.Error(0)
}

// WeatherGateway mocks ports.WeatherGateway
type WeatherGateway struct {
	mock.Mock
}

func NewWeatherGateway(t testingT) *WeatherGateway {
	m := &WeatherGateway{}
	register(&m.Mock, t)
	return m
}

func (m *WeatherGateway) CurrentWeather(ctx context.Context, city string) (*ports.UpstreamResponse, error) {
	args := m.Called(ctx, city)
	resp, _ := args.Get(0).(*ports.UpstreamResponse)
	return resp, args.Error(1)
}

func (m *WeatherGateway) GeocodeCity(ctx context.Context, query string, limit int) (*ports.GeocodeResult, error) {
	args := m.Called(ctx, query, limit)
	result, _ := args.Get(0).(*ports.GeocodeResult)
	return result, args.Error(1)
}

// CacheProvider mocks ports.CacheProvider
type CacheProvider struct {
	mock.Mock
}

func NewCacheProvider(t testingT) *CacheProvider {
	m := &CacheProvider{}
	register(&m.Mock, t)
	return m
}

func (m *CacheProvider) Get(ctx context.Context, key string) ([]byte, error) {
	args := m.Called(ctx, key)
	value, _ := args.Get(0).([]byte)
	return value, args.Error(1)
}

func (m *CacheProvider) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	args := m.Called(ctx, key, value, ttl)
	return args.Error(0)
}

func (m *CacheProvider) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *CacheProvider) Clear(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// LogEntry is one call captured by Logger
type LogEntry struct {
	Level   string
	Message string
	Fields  map[string]interface{}
}

// Logger records every call so tests can assert on what was logged
type Logger struct {
	mu      sync.Mutex
	entries []LogEntry
}

func NewLogger() *Logger {
	return &Logger{}
}

func (l *Logger) Debug(msg string, fields ...ports.Field) { l.record("debug", msg, fields) }
func (l *Logger) Info(msg string, fields ...ports.Field)  { l.record("info", msg, fields) }
func (l *Logger) Warn(msg string, fields ...ports.Field)  { l.record("warn", msg, fields) }
func (l *Logger) Error(msg string, fields ...ports.Field) { l.record("error", msg, fields) }

func (l *Logger) record(level, msg string, fields []ports.Field) {
	entry := LogEntry{Level: level, Message: msg, Fields: make(map[string]interface{}, len(fields))}
	for _, f := range fields {
		entry.Fields[f.Key] = f.Value
	}
	l.mu.Lock()
	l.entries = append(l.entries, entry)
	l.mu.Unlock()
}

// Entries returns a copy of the captured calls
func (l *Logger) Entries() []LogEntry {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]LogEntry, len(l.entries))
	copy(out, l.entries)
	return out
}

// HasEntry reports whether a message was logged at the given level
func (l *Logger) HasEntry(level, msg string) bool {
	for _, e := range l.Entries() {
		if e.Level == level && e.Message == msg {
			return true
		}
	}
	return false
}

// Metrics counts recorder calls by a flat key
type Metrics struct {
	mu     sync.Mutex
	counts map[string]int
}

func NewMetrics() *Metrics {
	return &Metrics{counts: make(map[string]int)}
}

func (m *Metrics) ObserveHTTPRequest(method, route string, status int, _ time.Duration) {
	m.inc(fmt.Sprintf("http:%s %s %d", method, route, status))
}

func (m *Metrics) ObserveUpstreamCall(endpoint string, status int, failed bool, _ time.Duration) {
	m.inc(fmt.Sprintf("upstream:%s %d %t", endpoint, status, failed))
}

func (m *Metrics) RecordHistoryWrite(source string, success bool) {
	m.inc(fmt.Sprintf("history:%s %t", source, success))
}

func (m *Metrics) RecordCacheLookup(cache string, hit bool) {
	m.inc(fmt.Sprintf("cache:%s %t", cache, hit))
}

// Count returns how many times the keyed observation was recorded
func (m *Metrics) Count(key string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.counts[key]
}

func (m *Metrics) inc(key string) {
	m.mu.Lock()
	m.counts[key]++
	m.mu.Unlock()
}
