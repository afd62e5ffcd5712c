package domain

import "time"

const DefaultLoginAttempts = 3

const (
	DefaultLoginTimeout       = 15 * time.Second
	DefaultNetworkIdleTimeout = 10 * time.Second
	DefaultRecordProbeTimeout = 1 * time.Second

	DefaultChallengeRenderDelay = 5 * time.Second
	DefaultChallengePollWindow  = 30 * time.Second
	DefaultChallengePollMin     = 500 * time.Millisecond
	DefaultChallengePollMax     = 1000 * time.Millisecond

	DefaultFieldDelay       = 1 * time.Second
	DefaultFormOpenDelay    = 1 * time.Second
	DefaultSettleDelay      = 5 * time.Second
	DefaultIPServiceTimeout = 10 * time.Second
)
