package services

import "bank-gateway/internal/models"

// PopulateContactLabels annotates each transaction with the saved contact
// label of its counterparty, in place. The counterparty is whichever side of
// the transaction is not the viewer's account; transactions with no matching
// contact get an explicit nil label. Duplicate contact account numbers are
// not deduplicated upstream, so the last one wins.
//
// A nil transaction list, nil contact list, or empty account id makes this a
// no-op: the aggregator may have delivered partial results.
func PopulateContactLabels(accountID string, transactions []models.TransactionRecord, contacts []models.Contact) {
	if accountID == "" || transactions == nil || contacts == nil {
		return
	}

	contactMap := make(map[string]string, len(contacts))
	for _, contact := range contacts {
		contactMap[contact.AccountNum] = contact.Label
	}

	for i := range transactions {
		var counterparty string
		switch accountID {
		case transactions[i].ToAccountNum:
			counterparty = transactions[i].FromAccountNum
		case transactions[i].FromAccountNum:
			counterparty = transactions[i].ToAccountNum
		default:
			continue
		}

		if label, ok := contactMap[counterparty]; ok {
			transactions[i].AccountLabel = &label
		} else {
			transactions[i].AccountLabel = nil
		}
	}
}
