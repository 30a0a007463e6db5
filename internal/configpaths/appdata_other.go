//go:build !windows

package configpaths

import "errors"

func roamingAppData() (string, error) {
	return "", errors.New("roaming AppData is Windows only")
}
