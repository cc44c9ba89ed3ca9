package constants

import "time"

const DefaultDeviceType = "hueclient#cli"

const DefaultHTTPTimeout = 10 * time.Second

// pause between commands sent to consecutive lights, to go easy on the bridge
const DefaultCommandInterval = 50 * time.Millisecond

// registration retries while the link button has not been pressed
const DefaultLinkRetryDelay = 5 * time.Second

// bridge events
const EventBatchTypeAdd = "add"
const EventBatchTypeUpdate = "update"
const EventBatchTypeDelete = "delete"
const EventBatchTypeError = "error"

const EventStatusConnectivityIssue = "connectivity_issue"
const EventStatusConnected = "connected"
