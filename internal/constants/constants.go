package constants

const (
	DNSSettingsURL       = "https://domain.tenten.vn/ApiDnsSetting"
	LoginURLMarker       = "login"
	DefaultConfigFile    = "config.json"
	DefaultLogFile       = "ddns_updater.log"
	DefaultStateFile     = "ddns_state.yaml"
	DefaultLocale        = "vi-VN"
	DefaultTimezoneID    = "Asia/Ho_Chi_Minh"
	DefaultPageTimeoutMs = 30000
	ProfileLockFile      = ".tenten-ddns.lock"

	EnvDebug     = "TENTEN_DDNS_DEBUG"
	EnvLogFormat = "TENTEN_DDNS_LOG_FORMAT"
	EnvPassword  = "TENTEN_DDNS_PASSWORD"
)

var DefaultIPServices = []string{
	"https://api.ipify.org",
	"https://ifconfig.me/ip",
	"https://icanhazip.com",
}
