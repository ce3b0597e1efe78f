package auth

import "context"

// LoginTestChecker is a Checker for tests, with settable outcomes
type LoginTestChecker struct {
	LoggedSessions map[string]bool
	Err            error
}

func NewLoginTestChecker() *LoginTestChecker {
	return &LoginTestChecker{
		LoggedSessions: make(map[string]bool),
	}
}

func (lc *LoginTestChecker) IsLogged(_ context.Context, token string) (bool, error) {
	if lc.Err != nil {
		return false, lc.Err
	}
	return lc.LoggedSessions[token], nil
}
