package intent

import "regexp"

type rule struct {
	intent   Intent
	patterns []*regexp.Regexp
}

func compile(exprs ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(exprs))
	for i, e := range exprs {
		out[i] = regexp.MustCompile(`(?i)` + e)
	}
	return out
}

// rules are scored in order; on equal scores the earlier rule wins.
var rules = []rule{
	{PartLookup, compile(
		`part\s+number\s+([a-z]{2}\d+)`,
		`([a-z]{2}\d+)`,
		`what\s+is\s+([a-z]{2}\d+)`,
		`tell\s+me\s+about\s+([a-z]{2}\d+)`,
		`details\s+for\s+([a-z]{2}\d+)`,
	)},
	{CompatibilityCheck, compile(
		`compatible\s+with`,
		`fit\s+my\s+(\w+)`,
		`work\s+with\s+model`,
		`model\s+([a-z0-9]+)`,
		`will.*work.*(\w+)`,
		`does.*fit`,
	)},
	{InstallationHelp, compile(
		`how\s+to\s+install`,
		`install.*part`,
		`installation\s+guide`,
		`how\s+do\s+i\s+install`,
		`replace.*part`,
		`repair.*guide`,
		`fix.*install`,
	)},
	{Troubleshooting, compile(
		`not\s+working`,
		`broken`,
		`fix.*problem`,
		`repair`,
		`troubleshoot`,
		`issue\s+with`,
		`problem\s+with`,
		`won'?t\s+work`,
		`not\s+functioning`,
		`making\s+noise`,
		`leaking`,
		`not\s+(draining|cooling|cleaning|heating|defrosting|dispensing)`,
		`won'?t\s+(start|close|drain)`,
		`common\s+(problems|issues)`,
		`what\s+(issues|problems)`,
	)},
	{ProductSearch, compile(
		`need.*filter`,
		`looking\s+for`,
		`find.*part`,
		`search\s+for`,
		`show\s+me`,
		`water\s+filter`,
		`ice\s+maker`,
		`door\s+seal`,
		`parts\s+for`,
	)},
	{PurchaseIntent, compile(
		`\bbuy\b`,
		`\bpurchase\b`,
		`want\s+to\s+(buy|order|purchase)`,
		`add\s+.*to\s+(my\s+)?cart`,
		`i'?ll\s+take`,
	)},
	{PurchaseConfirmation, compile(
		`^\s*(yes|yeah|yep|ok|okay|sure|proceed|confirm)\b`,
		`^\s*add\s+it\b`,
		`sounds\s+good`,
		`go\s+ahead`,
	)},
	{CartOperations, compile(
		`\bcart\b`,
		`remove\s+.*from`,
		`update\s+.*quantity`,
		`\badd\s+(a|an|some)\b`,
		`clear\s+.*cart`,
	)},
	{PricingInquiry, compile(
		`\bprice\b`,
		`how\s+much`,
		`\bcost\b`,
		`\bsavings?\b`,
		`\bdiscount\b`,
		`\bcheaper\b`,
	)},
	{CheckoutAssistance, compile(
		`check\s*out`,
		`\bpayment\b`,
		`pay\s+(with|by)`,
		`place\s+(an?\s+|my\s+)?order`,
		`complete\s+(my\s+)?(order|purchase)`,
	)},
	{OrderingInfo, compile(
		`price`,
		`cost`,
		`buy`,
		`order`,
		`purchase`,
		`in\s+stock`,
		`shipping`,
		`delivery`,
	)},
	{GeneralInfo, compile(
		`what\s+is`,
		`tell\s+me\s+about`,
		`information\s+about`,
		`details\s+about`,
	)},
}

// Override triggers applied when a part number is present.
var (
	installMention  = regexp.MustCompile(`(?i)install|how\s+to`)
	fitMention      = regexp.MustCompile(`(?i)compatib|\bfits?\b`)
	purchaseMention = regexp.MustCompile(`(?i)\b(buy|purchase|order)\b|add\s+.*to\s+(my\s+)?cart`)
)
