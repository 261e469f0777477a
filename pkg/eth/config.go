package eth

import "creatorpay/pkg/config"

// ConfigFrom maps the chain settings of the service configuration.
func ConfigFrom(cfg *config.Config) Config {
	return Config{
		RPCURL:            cfg.RPCURL,
		ContractAddress:   cfg.ContractAddress,
		ChainID:           cfg.ChainID,
		Timeout:           cfg.RPCTimeout,
		LogPageSize:       cfg.LogPageSize,
		StartBlock:        cfg.StartBlock,
		RequestsPerSecond: cfg.RPCRequestsPerSec,
	}
}
