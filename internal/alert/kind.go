package alert

import "strings"

// Kind identifies a known vault event family. Event names coming off the
// chain are matched case-insensitively; anything unmatched falls back to
// KindUnknown and a generic message.
type Kind int

const (
	KindUnknown Kind = iota
	KindDeposit
	KindWithdraw
	KindReallocateSupply
	KindReallocateWithdraw
	KindSubmitTimelock
	KindSetTimelock
	KindSetSkimRecipient
	KindSetFee
	KindSetFeeRecipient
	KindSubmitGuardian
	KindSetGuardian
	KindSubmitCap
	KindSetCap
	KindSubmitMarketRemoval
	KindSetCurator
	KindSetIsAllocator
	KindRevokePendingTimelock
	KindRevokePendingCap
	KindRevokePendingGuardian
	KindRevokePendingMarketRemoval
	KindSetSupplyQueue
	KindSetWithdrawQueue
	KindSkim
	KindAccrueInterest
	KindAccrueFee
	KindTransfer
	KindApproval
	KindCreateMetaMorpho
	KindUpdateLastTotalAssets
)

var kindsByName = map[string]Kind{
	"deposit":                    KindDeposit,
	"withdraw":                   KindWithdraw,
	"reallocatesupply":           KindReallocateSupply,
	"reallocatewithdraw":         KindReallocateWithdraw,
	"submittimelock":             KindSubmitTimelock,
	"settimelock":                KindSetTimelock,
	"setskimrecipient":           KindSetSkimRecipient,
	"setfee":                     KindSetFee,
	"setfeerecipient":            KindSetFeeRecipient,
	"submitguardian":             KindSubmitGuardian,
	"setguardian":                KindSetGuardian,
	"submitcap":                  KindSubmitCap,
	"setcap":                     KindSetCap,
	"submitmarketremoval":        KindSubmitMarketRemoval,
	"setcurator":                 KindSetCurator,
	"setisallocator":             KindSetIsAllocator,
	"revokependingtimelock":      KindRevokePendingTimelock,
	"revokependingcap":           KindRevokePendingCap,
	"revokependingguardian":      KindRevokePendingGuardian,
	"revokependingmarketremoval": KindRevokePendingMarketRemoval,
	"setsupplyqueue":             KindSetSupplyQueue,
	"setwithdrawqueue":           KindSetWithdrawQueue,
	"skim":                       KindSkim,
	"accrueinterest":             KindAccrueInterest,
	"accruefee":                  KindAccrueFee,
	"transfer":                   KindTransfer,
	"approval":                   KindApproval,
	"createmetamorpho":           KindCreateMetaMorpho,
	"updatelasttotalassets":      KindUpdateLastTotalAssets,
}

// KindOf matches an event name against the known kinds.
func KindOf(name string) Kind {
	if kind, ok := kindsByName[strings.ToLower(name)]; ok {
		return kind
	}
	return KindUnknown
}

// Reallocation reports whether the kind moves supplied liquidity between
// markets. Reallocation alerts can be routed to a dedicated chat.
func (k Kind) Reallocation() bool {
	return k == KindReallocateSupply || k == KindReallocateWithdraw
}

// Suppressed reports whether the kind is user-facing bookkeeping that never
// produces an alert.
func (k Kind) Suppressed() bool {
	switch k {
	case KindAccrueInterest, KindAccrueFee, KindTransfer, KindApproval, KindCreateMetaMorpho, KindUpdateLastTotalAssets:
		return true
	default:
		return false
	}
}
