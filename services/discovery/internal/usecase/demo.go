package usecase

import "creatorpay/pkg/models"

// demoCreators are the well-known local development accounts shown when the
// chain has no registrations to offer.
var demoCreators = []models.Creator{
	{Address: "0x70997970C51812dc3A010C7d01b50e0d17dc79C8", Name: "Demo Creator 1", Demo: true},
	{Address: "0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266", Name: "Demo Creator 2", Demo: true},
}

func (uc *discoveryUseCase) fallbackCreators() []models.Creator {
	if !uc.opts.DemoFallback {
		return []models.Creator{}
	}
	out := make([]models.Creator, len(demoCreators))
	copy(out, demoCreators)
	return out
}
