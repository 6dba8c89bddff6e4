// Package transport is the SDK's only collaborator with the outside world:
// it exchanges credentials for an access token, fetches the catalog
// document over HTTP, and runs the push-channel update loop over a
// websocket. Nothing else in this module performs network I/O.
package transport

// Credentials are how to reach the service: an API key and the region and
// instance (guid) the service lives under.
type Credentials struct {
	APIKey string
	Region string
	GUID   string
}

// Context is what to pull once connected: the environment/collection pair
// this client pins itself to for its lifetime (mirrors the Rust SDK's
// IBMCloudContext split between "how to reach it" and "what to pull").
type Context struct {
	EnvironmentID string
	CollectionID  string
}

func baseURL(region, guid string) string {
	return "https://" + region + ".apprapp.cloud.ibm.com/apprapp/feature/v1/instances/" + guid + "/config"
}

func websocketURL(region string) string {
	return "wss://" + region + ".apprapp.cloud.ibm.com/apprapp/wsfeature"
}

const userAgent = "appconfiguration-go-sdk/0.1.0"

// keepAlive is the exact literal the server sends as a push-channel
// keep-alive; any other textual payload means "refetch".
const keepAlive = "test message"
