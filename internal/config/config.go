package config

import (
	"io/fs"
	"time"
)

// -----------------------------------------------------------------------------
// Build Information
// -----------------------------------------------------------------------------

// Build variables are injected via -ldflags.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// UserAgent identifies the HTTP client.
var UserAgent = "HPDE-Analytics/" + Version

// -----------------------------------------------------------------------------
// Application Constants
// -----------------------------------------------------------------------------

const (
	AppName        = "HPDE Analytics"
	AppCommand     = "hpde-analytics"
	KeyringService = "hpde-analytics-cli"
	LogFileName    = "app.log"
	TokenFileName  = "access_token.json"
)

// Keyring user names for the OAuth consumer credentials.
const (
	KeyringConsumerKey    = "msr_consumer_key"
	KeyringConsumerSecret = "msr_consumer_secret"
	KeyringProbeUser      = "__test__"
)

// -----------------------------------------------------------------------------
// CLI Commands, Flags & Descriptions
// -----------------------------------------------------------------------------

const (
	CmdConfigure   = "configure"
	CmdCredentials = "credentials"
	CmdAuth        = "auth"
	CmdDiscover    = "discover"
	CmdExport      = "export"
	CmdReport      = "report"

	FlagVerbose    = "verbose"
	FlagVerboseS   = "v"
	FlagOrgID      = "org-id"
	FlagEventID    = "event-id"
	FlagOutput     = "output"
	FlagOutputDir  = "output-dir"
	FlagName       = "name"
	FlagFormat     = "format"
	FlagExportDir  = "export-dir"
	FlagReportFile = "report-file"
	FlagLang       = "lang"

	FlagDescVerbose    = "Enable verbose output (debug logs on stderr)"
	FlagDescOrgID      = "Organization ID to use for API requests (overrides default)"
	FlagDescEventID    = "Event ID to query"
	FlagDescOutput     = "Output file for the field inventory"
	FlagDescInvFormat  = "Inventory format: json or yaml (default: from file extension)"
	FlagDescOutputDir  = "Directory for export output files"
	FlagDescExportName = "Custom name for the export folder (e.g. HPDE_TT_1_2025)"
	FlagDescReportName = "Custom name for the report file (e.g. HPDE_TT_1_2025)"
	FlagDescExportDir  = "Directory containing exported data (required)"
	FlagDescReportFile = "Output path for the report (default: inside the export directory)"
	FlagDescFormat     = "Report format: xlsx, csv or json"
	FlagDescLang       = "Report header language"

	DescRoot        = "MotorsportReg API integration for HPDE and Time Trials programs"
	DescRootLong    = "Without a subcommand, authenticates and runs field discovery."
	DescConfigure   = "Store API credentials securely in the system keyring"
	DescCredentials = "Show current credential configuration status"
	DescAuth        = "Run the authentication flow only"
	DescDiscover    = "Run field discovery (requires existing authentication)"
	DescExport      = "Export all event data to JSON, CSV, iCalendar and vCard files"
	DescReport      = "Generate the Time Trials report from exported data"
)

// -----------------------------------------------------------------------------
// Exit Codes
// -----------------------------------------------------------------------------

const (
	ExitCodeSuccess   = 0
	ExitCodeError     = 1
	ExitCodeCancelled = 130
)

// -----------------------------------------------------------------------------
// System & File Permissions
// -----------------------------------------------------------------------------

const (
	// FilePermUserRW represents -rw------- (Read/Write for owner only).
	// Used for tokens and logs.
	FilePermUserRW fs.FileMode = 0600

	// FilePermShared represents -rw-r--r--, used for exported data files.
	FilePermShared fs.FileMode = 0644

	// DirPermUserRWX represents drwx------ (Read/Write/Exec for owner only).
	DirPermUserRWX fs.FileMode = 0700

	// DirPermShared represents drwxr-xr-x, used for export folders.
	DirPermShared fs.FileMode = 0755

	ChannelBufferSize = 1
)

// -----------------------------------------------------------------------------
// Environment Keys & Defaults
// -----------------------------------------------------------------------------

const (
	EnvConsumerKey    = "MSR_CONSUMER_KEY"
	EnvConsumerSecret = "MSR_CONSUMER_SECRET"
	EnvBaseURL        = "MSR_BASE_URL"
	EnvCallbackURL    = "MSR_CALLBACK_URL"
	EnvCallbackPort   = "MSR_CALLBACK_PORT"
	EnvTokenFile      = "MSR_TOKEN_FILE"
	EnvOrgID          = "MSR_ORG_ID"

	DefaultBaseURL      = "https://api.motorsportreg.com"
	DefaultAuthorizeURL = "https://www.motorsportreg.com/index.cfm/event/oauth"
	DefaultCallbackPort = 8089
	DefaultLanguage     = "en"
	DefaultOutputDir    = "output"
	DefaultInventory    = "output/field_inventory.json"
	CallbackHost        = "localhost"
	CallbackPath        = "/callback"
	FormatCallbackURL   = "http://%s:%d%s"
)

// SupportedLanguages defines the report header languages (ISO 639-1).
var SupportedLanguages = []string{"en", "fr"}

// -----------------------------------------------------------------------------
// MotorsportReg REST Endpoints
// -----------------------------------------------------------------------------

const (
	PathRequestToken = "/rest/tokens/request"
	PathAccessToken  = "/rest/tokens/access"
	PathMe           = "/rest/me"
	PathCalendar     = "/rest/calendars/organization/%s"
	PathEntryList    = "/rest/events/%s/entrylist"
	PathAttendees    = "/rest/events/%s/attendees"
	PathAssignments  = "/rest/events/%s/assignments"
	PathTimingFeed   = "/rest/events/%s/feeds/timing"
	SuffixJSON       = ".json"

	EnvelopeKey    = "response"
	ProfileKey     = "profile"
	OrgsKey        = "organizations"
	EventsKey      = "events"
	AttendeesKey   = "attendees"
	AssignmentsKey = "assignments"
	ErrorKey       = "error"
	IDKey          = "id"
)

// Endpoint names used as keys in fetched data and exports.
const (
	EndpointMe          = "me"
	EndpointCalendar    = "calendar"
	EndpointEntryList   = "entrylist"
	EndpointAttendees   = "attendees"
	EndpointAssignments = "assignments"
	EndpointTiming      = "timing"
)

// -----------------------------------------------------------------------------
// Network, Retries & Timeouts
// -----------------------------------------------------------------------------

const (
	HTTPTimeout         = 30 * time.Second
	ShutdownTimeout     = 5 * time.Second
	CallbackTimeout     = 5 * time.Minute
	ServerReadTimeout   = 10 * time.Second
	ServerWriteTimeout  = 30 * time.Second
	ServerIdleTimeout   = 60 * time.Second
	DefaultMaxRetries   = 3
	DefaultRetryDelay   = 1 * time.Second
	MaxHTTPResponseSize = 64 * 1024 * 1024 // 64MB
	SchemeHTTP          = "http"
	SchemeHTTPS         = "https"
)

// -----------------------------------------------------------------------------
// HTTP Headers & MIME Types
// -----------------------------------------------------------------------------

const (
	HeaderContentType  = "Content-Type"
	HeaderAccept       = "Accept"
	HeaderUserAgent    = "User-Agent"
	HeaderOrgID        = "X-Organization-Id"
	HeaderXContentType = "X-Content-Type-Options"

	MimeJSON    = "application/json"
	MimeHTML    = "text/html; charset=utf-8"
	MimeNoSniff = "nosniff"
)

// -----------------------------------------------------------------------------
// Export & Report Files
// -----------------------------------------------------------------------------

const (
	DirRawData        = "raw_data"
	FolderPrefix      = "export"
	FormatFolder      = "%s_%s"
	TimestampLayout   = "20060102_150405"
	ReportPrefix      = "tt_report"
	ReportSheet       = "Time Trials Report"
	FileEntryList     = "entrylist.csv"
	FileAttendees     = "attendees.csv"
	FileAssignments   = "assignments.json"
	FileSummary       = "export_summary"
	FileCalendarICS   = "calendar_events.ics"
	FileAttendeesVCF  = "attendees.vcf"
	CSVNoDataMarker   = "# No data available"
	ExtJSON           = ".json"
	ExtCSV            = ".csv"
	ExtXLSX           = ".xlsx"
	ExtYAML           = ".yaml"
	ExtYML            = ".yml"
	FormatXLSX        = "xlsx"
	FormatCSV         = "csv"
	FormatJSON        = "json"
	FormatYAML        = "yaml"
	FlattenSeparator  = "."
	MaxColumnWidth    = 50
	ColumnPadding     = 2
	HeaderFillColor   = "4472C4"
	HeaderFontColor   = "FFFFFF"
	BorderColor       = "000000"
	FreezeTopLeftCell = "A2"
)

// ReportCenteredColumns lists the 1-based report columns rendered centred.
var ReportCenteredColumns = []int{6, 12, 13, 14, 15, 16}

// -----------------------------------------------------------------------------
// iCalendar & vCard
// -----------------------------------------------------------------------------

const (
	ICalVersion  = "2.0"
	ICalProdid   = "-//HPDE Analytics//Export//EN"
	ICalCalName  = "MotorsportReg Events"
	ICalDomain   = "hpde-analytics"
	FormatUID    = "%s@%s"
	VCardVersion = "4.0"

	PropVersion    = "VERSION"
	PropProdid     = "PRODID"
	PropXWRCalName = "X-WR-CALNAME"
	PropUID        = "UID"
	PropSummary    = "SUMMARY"
	PropLocation   = "LOCATION"
	PropURL        = "URL"
	PropDTStart    = "DTSTART"
	PropDTEnd      = "DTEND"
	PropDTStamp    = "DTSTAMP"

	DateLayoutISO = "2006-01-02"
)

// -----------------------------------------------------------------------------
// Translation Keys
// -----------------------------------------------------------------------------

const (
	// TKeyPrefixColumn prefixes a report column id ("column_first_name").
	TKeyPrefixColumn = "column_"
	TKeySheetName    = "sheet_name"
	TKeyReportTitle  = "report_title"
	LocalesDir       = "locales"
	LocalePrefix     = "active."
)

// -----------------------------------------------------------------------------
// Error Messages (Technical/Logs)
// -----------------------------------------------------------------------------

const (
	ErrNoCredentials   = "no credentials found; run configure or set MSR_CONSUMER_KEY and MSR_CONSUMER_SECRET"
	ErrKeyringStore    = "failed to store credentials in keyring"
	ErrKeyringDelete   = "failed to delete credentials from keyring"
	ErrKeyringMissing  = "system keyring not available"
	ErrTokenLoad       = "could not load tokens"
	ErrTokenSave       = "could not save tokens"
	ErrNoTokens        = "no valid access tokens; run auth first"
	ErrTokensRejected  = "authentication failed - tokens are invalid or expired"
	ErrRequestToken    = "failed to obtain request token"
	ErrAccessToken     = "failed to obtain access token"
	ErrAuthorizeURL    = "failed to build authorization URL"
	ErrNoVerifier      = "no verification code received from callback"
	ErrAuthDenied      = "authorization denied"
	ErrCallbackServer  = "callback server failed"
	ErrServerStartup   = "server failed to start"
	ErrServerShutdown  = "server shutdown failed"
	ErrInvalidURL      = "invalid URL structure"
	ErrProtocol        = "unsupported protocol scheme (http/https only)"
	ErrRequestFailed   = "request failed"
	ErrUnauthorized    = "authentication failed - tokens may be invalid or expired"
	ErrForbidden       = "access forbidden - insufficient permissions"
	ErrNotFound        = "resource not found"
	ErrServerStatus    = "server error"
	ErrStatus          = "request failed with status"
	ErrDecodeResponse  = "failed to decode response"
	ErrEventIDRequired = "event ID is required"
	ErrOrgIDRequired   = "organization ID is required"
	ErrExportDir       = "export directory not found"
	ErrReadInput       = "failed to read report input"
	ErrWriteReport     = "failed to write report"
	ErrFormatUnknown   = "unsupported output format"
	ErrWriteExport     = "failed to write export file"
	ErrICalEncode      = "failed to encode iCalendar data"
	ErrVCardEncode     = "failed to encode vCard data"
	ErrInventorySave   = "failed to save field inventory"
	ErrLogFile         = "failed to open log file"
	ErrCacheDir        = "could not determine user cache dir"
	ErrConfigDir       = "could not determine user config dir"
	ErrCreateDir       = "could not create directory"
	ErrAppFailed       = "application failed unexpectedly"
	ErrLocalesAccess   = "failed to access embedded locales"
	ErrLocaleLoad      = "failed to load locale file"
	ErrInputEmpty      = "input cannot be empty"
	ErrCallbackPort    = "callback port must be between 1 and 65535"
	ErrConfiguration   = "configuration error"
	ErrReadPrompt      = "failed to read input"
)

// -----------------------------------------------------------------------------
// Log Messages
// -----------------------------------------------------------------------------

const (
	MsgAppStarting     = "Starting application"
	MsgAppStop         = "Application finished"
	MsgEnvLoaded       = "Loaded environment file"
	MsgEnvMissing      = "No .env file found, using environment variables only"
	MsgReportStart     = "Report generation started"
	MsgReportDone      = "Report generated"
	MsgInputMissing    = "Optional report input missing"
	MsgRequest         = "API request"
	MsgRetry           = "Retrying API request"
	MsgEndpointFailed  = "Endpoint fetch failed"
	MsgFirstEvent      = "Using first event from calendar"
	MsgNoEvent         = "No event ID available, skipping event endpoints"
	MsgExported        = "File exported"
	MsgExportFailed    = "Endpoint export failed"
	MsgExportDone      = "Export finished"
	MsgTokensLoaded    = "Loaded existing access tokens"
	MsgTokensSaved     = "Access tokens saved"
	MsgTokensInvalid   = "Existing tokens invalid, starting fresh authentication"
	MsgCallbackListen  = "Callback server listening"
	MsgCallbackStop    = "Shutting down callback server"
	MsgCallbackRequest = "Callback request received"
	MsgBrowserFailed   = "Could not open browser automatically"
	MsgKeyringFailed   = "Keyring lookup failed"
	MsgLocaleSkip      = "Skipping non-locale file"
	MsgLocaleBadName   = "Invalid locale filename"
	MsgLocaleLoaded    = "Locale loaded successfully"
	MsgTransMissing    = "Missing translation key"
	MsgFieldsFound     = "Fields discovered"
	MsgLogWarning      = "Warning: %s at %s: %v\n"
	MsgVisitURL        = "Please visit this URL to authorize the application:\n\n  %s\n\n"
	MsgWaitingCallback = "Waiting for authorization callback on %s (press Ctrl+C to cancel)\n"
	MsgVersionOutput   = "%s version %s (%s/%s)\n"
)

// -----------------------------------------------------------------------------
// Console Text
// -----------------------------------------------------------------------------

const (
	TextProfile          = "User Profile"
	TextName             = "Name"
	TextEmail            = "Email"
	TextProfileID        = "Profile ID"
	TextOrganizations    = "Organizations (%d):"
	TextOrgLine          = "  - %s (ID: %s)"
	TextNoOrgs           = "No organizations found"
	TextUnknown          = "Unknown"
	TextNotAvailable     = "N/A"
	TextFetching         = "Fetching API Data"
	TextRawResponses     = "Raw API Responses"
	TextTruncated        = "... (truncated)"
	TextDiscovery        = "Field Discovery Summary"
	TextTotalFields      = "Total unique fields discovered: %d"
	TextEndpointsDone    = "Endpoints analyzed: %d"
	TextByType           = "Fields by type:"
	TextPerEndpoint      = "Fields per endpoint:"
	TextEndpointNew      = "%s %s: %d new fields"
	TextFieldCount       = "  %s: %d fields"
	TextTypeCount        = "  %s: %d"
	TextFieldLine        = "  %s: %s%s"
	TextNullable         = " (nullable)"
	TextMoreFields       = "  ... and %d more fields"
	TextInventorySaved   = "Field inventory saved to: %s"
	TextExporting        = "Exporting Data"
	TextExportDone       = "Export Complete"
	TextExportedTo       = "Files exported to: %s"
	TextExportedFiles    = "Exported files:"
	TextFileLine         = "  - %s: %s"
	TextGenerating       = "Generating Report"
	TextReportDone       = "Report Complete"
	TextReportSaved      = "Report saved to: %s (%d participants)"
	TextCredsTitle       = "HPDE Analytics - Credential Configuration"
	TextNoKeyring        = "Warning: System keyring is not available.\nCredentials will need to be set via environment variables.\n\nTo use environment variables, add to your .env file:\n  MSR_CONSUMER_KEY=your_key_here\n  MSR_CONSUMER_SECRET=your_secret_here"
	TextKeyringIntro     = "This will store your MotorsportReg OAuth credentials securely\nin your system's credential manager."
	TextReplacePrompt    = "Existing credentials found in keyring.\nDo you want to replace them? (y/N): "
	TextConfigCancelled  = "Configuration cancelled."
	TextEnterCreds       = "Enter your MotorsportReg OAuth credentials:\n(These are provided by MotorsportReg for API access)"
	TextPromptKey        = "Consumer Key: "
	TextPromptSecret     = "Consumer Secret: "
	TextCredsStored      = "[OK] Credentials stored securely in system keyring."
	TextStatusTitle      = "Credential Status"
	TextKeyringAvailable = "System keyring available: %s"
	TextInKeyring        = "Credentials in keyring: %s"
	TextInEnv            = "Credentials in environment: %s"
	TextActiveKeyring    = "[Active] Using credentials from system keyring"
	TextActiveEnv        = "[Active] Using credentials from environment variables"
	TextNoCreds          = "[Warning] No credentials configured\n          Run configure to set up credentials"
	TextYes              = "Yes"
	TextNo               = "No"
	TextOK               = "[OK]"
	TextSkip             = "[SKIP]"
	TextDone             = "Done!"
	TextConfigError      = "Configuration error: %v"
	TextCancelled        = "Operation cancelled by user"
	TextError            = "Error: %v"

	RawPreviewLimit  = 2000
	FieldListLimit   = 20
	ConsoleRuleWidth = 60
	ConfirmYes       = "y"
)

// -----------------------------------------------------------------------------
// Structured Logging Keys
// -----------------------------------------------------------------------------

const (
	LogKeyComponent = "component"
	LogKeyURL       = "url"
	LogKeyStatus    = "status_code"
	LogKeyAttempt   = "attempt"
	LogKeyDelay     = "delay"
	LogKeyFile      = "file"
	LogKeyDir       = "dir"
	LogKeyLang      = "lang"
	LogKeyKey       = "key"
	LogKeyEndpoint  = "endpoint"
	LogKeyEventID   = "event_id"
	LogKeyOrgID     = "organization_id"
	LogKeyExportID  = "export_id"
	LogKeyItems     = "items"
	LogKeyRowsIn    = "rows_in"
	LogKeyCount     = "participants"
	LogKeyFormat    = "format"
	LogKeyPath      = "path"
	LogKeyDuration  = "duration_ms"
	LogKeyFields    = "fields"
	LogKeyVersion   = "version"
	LogKeyCommit    = "commit"
	LogKeyBuilt     = "build_date"
	LogKeyGoVer     = "go_version"
	LogKeyOS        = "os"
	LogKeyArch      = "arch"
	LogKeyPID       = "pid"
	LogKeyVerifier  = "has_verifier"
	LogKeyProfile   = "profile_id"
)

// -----------------------------------------------------------------------------
// Log Components
// -----------------------------------------------------------------------------

const (
	CompMain      = "main"
	CompConfig    = "config"
	CompEngine    = "engine"
	CompClient    = "client"
	CompAuth      = "auth"
	CompCallback  = "callback"
	CompCreds     = "credentials"
	CompExport    = "export"
	CompDiscovery = "discovery"
	CompI18n      = "i18n"
)
