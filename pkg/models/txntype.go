package models

import (
	"strings"

	"github.com/ginjaninja78/CSV-to-IIF-conversion/pkg/iiferr"
	"github.com/ginjaninja78/CSV-to-IIF-conversion/pkg/iifutil"
)

// TxnType is the TRNSTYPE column. The zero value is "not set".
type TxnType uint8

const (
	_ TxnType = iota
	TxnBeginBalCheck
	TxnBill
	TxnBillRefund
	TxnCashRefund
	TxnCashSale
	TxnCCardRefund
	TxnCheck
	TxnCreditCard
	TxnCreditMemo
	TxnDeposit
	TxnEstimates
	TxnGeneralJournal
	TxnInvoice
	TxnPayment
	TxnPurchaseOrder
	TxnTransfer
)

var txnTypeCodes = map[TxnType]string{
	TxnBeginBalCheck:  "BEGINBALCHECK",
	TxnBill:           "BILL",
	TxnBillRefund:     "BILL REFUND",
	TxnCashRefund:     "CASH REFUND",
	TxnCashSale:       "CASH SALE",
	TxnCCardRefund:    "CCARD REFUND",
	TxnCheck:          "CHECK",
	TxnCreditCard:     "CREDIT CARD",
	TxnCreditMemo:     "CREDIT MEMO",
	TxnDeposit:        "DEPOSIT",
	TxnEstimates:      "ESTIMATES",
	TxnGeneralJournal: "GENERAL JOURNAL",
	TxnInvoice:        "INVOICE",
	TxnPayment:        "PAYMENT",
	TxnPurchaseOrder:  "PURCHORD",
	TxnTransfer:       "TRANSFER",
}

// Types whose header line may carry the to-print flag.
var printableTypes = map[TxnType]bool{
	TxnCheck:      true,
	TxnInvoice:    true,
	TxnCreditMemo: true,
	TxnCashSale:   true,
}

// Types whose header line may carry a due date and terms.
var receivableTypes = map[TxnType]bool{
	TxnBill:    true,
	TxnInvoice: true,
}

// ParseTxnType accepts an external code ("GENERAL JOURNAL") or its
// underscore form ("general_journal"), case-insensitively.
func ParseTxnType(text string) (TxnType, error) {
	code := strings.ToUpper(strings.TrimSpace(text))
	code = strings.ReplaceAll(code, "_", " ")
	for t, c := range txnTypeCodes {
		if c == code {
			return t, nil
		}
	}
	return 0, iiferr.InvalidValue("TxnType", text, "unknown transaction type")
}

// Code returns the external code, or "" for an unset type.
func (t TxnType) Code() string { return txnTypeCodes[t] }

// IsPrintable reports whether the to-print flag may be set.
func (t TxnType) IsPrintable() bool { return printableTypes[t] }

// IsReceivable reports whether a due date and terms may be set.
func (t TxnType) IsReceivable() bool { return receivableTypes[t] }

func (t TxnType) IIF() string { return iifutil.EscapeColumn(t.Code()) }

func (t TxnType) IsSet() bool { return t.Code() != "" }

func (t TxnType) String() string { return t.Code() }
