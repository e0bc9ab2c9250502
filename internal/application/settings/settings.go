// Package settings defines application-level configuration data.
package settings

import (
	"errors"
	"strings"
)

// TraktConfig defines the trending feed connection.
type TraktConfig struct {
	URL      string `yaml:"url" kong:"help='Trakt API base URL',default='https://api.trakt.tv'"`
	ClientID string `yaml:"client_id" kong:"help='Trakt API client id'"`
}

// RadarrConfig defines the library manager connection.
type RadarrConfig struct {
	URL            string `yaml:"url" kong:"help='Radarr API base URL'"`
	APIKey         string `yaml:"api_key" kong:"help='Radarr API key'"`
	RootFolder     string `yaml:"root_folder" kong:"help='Root folder new movies are stored under',default='/movies'"`
	QualityProfile int    `yaml:"quality_profile" kong:"help='Quality profile id for new movies',default='1'"`
}

// TMDBConfig defines the optional trailer lookup connection.
type TMDBConfig struct {
	URL    string `yaml:"url" kong:"help='TMDB API base URL',default='https://api.themoviedb.org/3'"`
	APIKey string `yaml:"api_key" kong:"help='TMDB API key; empty disables trailer links'"`
}

// DiscordConfig defines the announcement channel.
type DiscordConfig struct {
	Token         string `yaml:"token" kong:"help='Discord bot token'"`
	ChannelID     string `yaml:"channel_id" kong:"help='Channel that receives announcements'"`
	MentionUserID string `yaml:"mention_user_id" kong:"help='User mentioned when new items are found'"`
}

// Settings represents the daemon configuration.
type Settings struct {
	Discord DiscordConfig `yaml:"discord" kong:"embed,prefix='discord.'"`
	Trakt   TraktConfig   `yaml:"trakt" kong:"embed,prefix='trakt.'"`
	Radarr  RadarrConfig  `yaml:"radarr" kong:"embed,prefix='radarr.'"`
	TMDB    TMDBConfig    `yaml:"tmdb" kong:"embed,prefix='tmdb.'"`

	CheckTime  string `yaml:"check_time" kong:"help='Daily check time (HH:MM)',default='18:00'"`
	Timezone   string `yaml:"timezone" kong:"help='Zone the check time is interpreted in',default='US/Eastern'"`
	IgnoreFile string `yaml:"ignore_file" kong:"help='Ignore list path'"`
	StatusAddr string `yaml:"status_addr" kong:"help='Status server listen address',default=':8478'"`
}

// Validate reports the first missing required setting. Defaults cover
// everything else.
func (s Settings) Validate() error {
	switch {
	case strings.TrimSpace(s.Discord.Token) == "":
		return errors.New("discord.token is required")
	case strings.TrimSpace(s.Discord.ChannelID) == "":
		return errors.New("discord.channel_id is required")
	case strings.TrimSpace(s.Trakt.ClientID) == "":
		return errors.New("trakt.client_id is required")
	case strings.TrimSpace(s.Radarr.URL) == "":
		return errors.New("radarr.url is required")
	case strings.TrimSpace(s.Radarr.APIKey) == "":
		return errors.New("radarr.api_key is required")
	}
	return nil
}
