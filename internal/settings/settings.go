// SPDX-License-Identifier: MPL-2.0

// Package settings persists the per-user tool settings (installation
// directory, app id, login) through the record store. Commands check their
// preconditions here before doing any work, so a missing setting never
// leaves partial side effects behind.
package settings

import (
	"errors"
	"fmt"

	"workshopctl/internal/store"
)

// Setting keys. The values under them are persisted in the settings
// collection of the record store.
const (
	KeyInstallDir = "install_dir"
	KeyAppID      = "appid"
	KeyLogin      = "login"
)

type (
	// Credentials is the stored login pair.
	Credentials struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}

	// Value is one persisted setting: either a plain string or a login
	// pair, depending on the key.
	Value struct {
		Text  string       `json:"text,omitempty"`
		Login *Credentials `json:"login,omitempty"`
	}

	// MissingSettingError reports an unset required setting together with
	// the command that fixes it.
	MissingSettingError struct {
		Key   string
		Usage string
	}

	// Settings is a typed view over the settings collection.
	Settings struct {
		values *store.Store[Value]
	}

	// DownloadSettings bundles everything the download executor needs.
	DownloadSettings struct {
		InstallDir string
		AppID      string
		Login      Credentials
	}
)

func (e *MissingSettingError) Error() string {
	return fmt.Sprintf("setting %q is not set (run: %s)", e.Key, e.Usage)
}

// IsMissing reports whether err stems from an unset required setting.
func IsMissing(err error) bool {
	var missing *MissingSettingError
	return errors.As(err, &missing)
}

// Open loads the settings collection at path.
func Open(path string) (*Settings, error) {
	values, err := store.Open(path, func(Value) string { return "" })
	if err != nil {
		return nil, err
	}
	return &Settings{values: values}, nil
}

func (s *Settings) text(key string) (string, bool) {
	v, ok := s.values.Get(key)
	if !ok || v.Text == "" {
		return "", false
	}
	return v.Text, true
}

// InstallDir returns the configured installation directory.
func (s *Settings) InstallDir() (string, bool) {
	return s.text(KeyInstallDir)
}

// SetInstallDir persists the installation directory.
func (s *Settings) SetInstallDir(dir string) error {
	return s.values.Put(KeyInstallDir, Value{Text: dir})
}

// AppID returns the configured application identifier.
func (s *Settings) AppID() (string, bool) {
	return s.text(KeyAppID)
}

// SetAppID persists the application identifier.
func (s *Settings) SetAppID(id string) error {
	return s.values.Put(KeyAppID, Value{Text: id})
}

// Login returns the stored credential pair.
func (s *Settings) Login() (Credentials, bool) {
	v, ok := s.values.Get(KeyLogin)
	if !ok || v.Login == nil {
		return Credentials{}, false
	}
	return *v.Login, true
}

// SetLogin persists the credential pair.
func (s *Settings) SetLogin(username, password string) error {
	return s.values.Put(KeyLogin, Value{Login: &Credentials{Username: username, Password: password}})
}

// RequireAppID returns the app id or a remediation-bearing error.
func (s *Settings) RequireAppID() (string, error) {
	id, ok := s.AppID()
	if !ok {
		return "", &MissingSettingError{Key: KeyAppID, Usage: "workshopctl set appid <appid>"}
	}
	return id, nil
}

// RequireInstallDir returns the install dir or a remediation-bearing error.
func (s *Settings) RequireInstallDir() (string, error) {
	dir, ok := s.InstallDir()
	if !ok {
		return "", &MissingSettingError{Key: KeyInstallDir, Usage: "workshopctl set install_dir <directory>"}
	}
	return dir, nil
}

// RequireLogin returns the credentials or a remediation-bearing error.
func (s *Settings) RequireLogin() (Credentials, error) {
	login, ok := s.Login()
	if !ok {
		return Credentials{}, &MissingSettingError{Key: KeyLogin, Usage: "workshopctl set login <username> <password>"}
	}
	return login, nil
}

// RequireDownload checks every precondition of a download in one pass and
// reports all missing settings together, so the user fixes them in one go.
func (s *Settings) RequireDownload() (DownloadSettings, error) {
	var errs []error

	dir, err := s.RequireInstallDir()
	if err != nil {
		errs = append(errs, err)
	}
	appID, err := s.RequireAppID()
	if err != nil {
		errs = append(errs, err)
	}
	login, err := s.RequireLogin()
	if err != nil {
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		return DownloadSettings{}, errors.Join(errs...)
	}
	return DownloadSettings{InstallDir: dir, AppID: appID, Login: login}, nil
}
