package service

import (
	"strings"
	"sync"
)

// Settings хранит настройки, которые можно менять без перезапуска
type Settings struct {
	mu    sync.RWMutex
	admin string
}

// NewSettings создает хранилище настроек
func NewSettings(admin string) *Settings {
	s := &Settings{}
	s.SetAdmin(admin)
	return s
}

// Admin возвращает имя администратора без "@"
func (s *Settings) Admin() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.admin
}

// SetAdmin меняет администратора
func (s *Settings) SetAdmin(username string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.admin = strings.TrimPrefix(strings.TrimSpace(username), "@")
}

// IsAdmin сообщает, что пользователь - администратор
func (s *Settings) IsAdmin(username string) bool {
	admin := s.Admin()
	return admin != "" && strings.EqualFold(admin, strings.TrimPrefix(username, "@"))
}
