package domain

import "errors"

var (
	ErrInvalidToken    = errors.New("invalid auth token")
	ErrExpiredToken    = errors.New("auth token expired")
	ErrUserNotFound    = errors.New("user not found")
	ErrBotNotFound     = errors.New("bot not found")
	ErrBotNotEntitled  = errors.New("bot not entitled for user")
	ErrThreadNotFound  = errors.New("thread not found")
	ErrActiveRequest   = errors.New("active request exists")
	ErrEmptyMessage    = errors.New("empty message")
	ErrSessionNotFound = errors.New("session not found")
)
