package properties

import "os"

// HttpPort is set from the command line at startup.
var HttpPort int

func RootPath() string {
	return os.Getenv("ROOT_PATH")
}

// NominatimURL overrides the public Nominatim endpoint, mainly for tests.
func NominatimURL() string {
	if url := os.Getenv("NOMINATIM_URL"); url != "" {
		return url
	}
	return "https://nominatim.openstreetmap.org"
}

// StacAPIURL is the STAC catalog root; defaults to Microsoft Planetary
// Computer, which serves Landsat Collection 2 Level 2 without credentials.
func StacAPIURL() string {
	if url := os.Getenv("STAC_API_URL"); url != "" {
		return url
	}
	return "https://planetarycomputer.microsoft.com/api/stac/v1"
}

// Optional client-credentials auth for private STAC catalogs.
func StacClientID() string {
	return os.Getenv("STAC_CLIENT_ID")
}
func StacClientSecret() string {
	return os.Getenv("STAC_CLIENT_SECRET")
}
func StacTokenURL() string {
	return os.Getenv("STAC_TOKEN_URL")
}

func DiscordErrorNotificationUrl() string {
	return os.Getenv("DISCORD_ERROR_NOTIFICATION_URL")
}
func DiscordSuccessNotificationUrl() string {
	return os.Getenv("DISCORD_SUCCESS_NOTIFICATION_URL")
}
