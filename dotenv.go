package knobs

import "github.com/vivaneiona/knobs/dotenv"

// LoadDotenv finds the .env file nearest to the working directory and loads
// it into the environment without overriding variables that are already set.
// Call it once at startup, before reading any knob.
//
// It returns the path that was loaded, or dotenv.ErrNotFound when there is
// no .env file between the working directory and the filesystem root.
func LoadDotenv(opts ...dotenv.Option) (string, error) {
	path, err := dotenv.Find("", dotenv.DefaultFilename)
	if err != nil {
		return "", err
	}
	if _, err := dotenv.Load(path, opts...); err != nil {
		return path, err
	}
	return path, nil
}
