package eth

import (
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

// Method and event names of the subscription contract.
const (
	MethodOwner                   = "owner"
	MethodCreators                = "creators"
	MethodGetRegisteredCreators   = "getRegisteredCreators"
	MethodGetSubscribers          = "getSubscribers"
	MethodIsSubscribed            = "isSubscribed"
	MethodSubscriptions           = "subscriptions"
	MethodGetCreatorName          = "getCreatorName"
	MethodSubscribe               = "subscribe"
	MethodRegisterCreator         = "registerCreator"
	MethodWithdrawCreatorEarnings = "withdrawCreatorEarnings"
	MethodWithdrawPlatformCut     = "withdrawPlatformCut"

	EventCreatorRegistered  = "CreatorRegistered"
	EventSubscribed         = "Subscribed"
	EventCreatorNameUpdated = "CreatorNameUpdated"
)

// SubscriptionABI is the interface of the deployed subscription contract.
// getCreatorName and CreatorNameUpdated are not present on every deployment.
const SubscriptionABI = `[
  {"type":"function","name":"owner","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"address"}]},
  {"type":"function","name":"creators","stateMutability":"view",
   "inputs":[{"name":"","type":"address"}],
   "outputs":[
     {"name":"name","type":"string"},
     {"name":"subscriptionFee","type":"uint256"},
     {"name":"platformShare","type":"uint256"},
     {"name":"creatorBalance","type":"uint256"},
     {"name":"platformBalance","type":"uint256"}]},
  {"type":"function","name":"getRegisteredCreators","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"address[]"}]},
  {"type":"function","name":"getSubscribers","stateMutability":"view","inputs":[{"name":"creator","type":"address"}],"outputs":[{"name":"","type":"address[]"}]},
  {"type":"function","name":"isSubscribed","stateMutability":"view",
   "inputs":[{"name":"user","type":"address"},{"name":"creator","type":"address"}],"outputs":[{"name":"","type":"bool"}]},
  {"type":"function","name":"subscriptions","stateMutability":"view",
   "inputs":[{"name":"","type":"address"},{"name":"","type":"address"}],"outputs":[{"name":"","type":"uint256"}]},
  {"type":"function","name":"getCreatorName","stateMutability":"view","inputs":[{"name":"creator","type":"address"}],"outputs":[{"name":"","type":"string"}]},
  {"type":"function","name":"subscribe","stateMutability":"payable","inputs":[{"name":"creator","type":"address"}],"outputs":[]},
  {"type":"function","name":"registerCreator","stateMutability":"nonpayable",
   "inputs":[{"name":"fee","type":"uint256"},{"name":"platformShare","type":"uint256"}],"outputs":[]},
  {"type":"function","name":"withdrawCreatorEarnings","stateMutability":"nonpayable","inputs":[],"outputs":[]},
  {"type":"function","name":"withdrawPlatformCut","stateMutability":"nonpayable","inputs":[{"name":"creator","type":"address"}],"outputs":[]},
  {"type":"event","name":"CreatorRegistered","anonymous":false,"inputs":[
     {"indexed":true,"name":"creator","type":"address"},
     {"indexed":false,"name":"fee","type":"uint256"},
     {"indexed":false,"name":"platformShare","type":"uint256"}]},
  {"type":"event","name":"Subscribed","anonymous":false,"inputs":[
     {"indexed":true,"name":"user","type":"address"},
     {"indexed":true,"name":"creator","type":"address"},
     {"indexed":false,"name":"expiresAt","type":"uint256"}]},
  {"type":"event","name":"CreatorNameUpdated","anonymous":false,"inputs":[
     {"indexed":true,"name":"creator","type":"address"},
     {"indexed":false,"name":"name","type":"string"}]}
]`

var contractABI = mustParseABI(SubscriptionABI)

func mustParseABI(def string) abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(def))
	if err != nil {
		panic("eth: invalid subscription ABI: " + err.Error())
	}
	return parsed
}

// ContractABI returns the parsed subscription contract ABI.
func ContractABI() abi.ABI {
	return contractABI
}

// MethodName resolves the contract method a calldata blob invokes.
// Unknown selectors yield an empty string.
func MethodName(data []byte) string {
	if len(data) < 4 {
		return ""
	}
	method, err := contractABI.MethodById(data[:4])
	if err != nil {
		return ""
	}
	return method.Name
}
