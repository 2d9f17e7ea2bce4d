package handlers

// User-facing copy. Kept in one place so wording stays consistent
// across flows.

const (
	MsgWelcome        = "🐄 Welcome to FarmBot!\n\nI keep track of your herd, milk yield, breeding, feed and finances. Let's set up your farm first. What should we call it?"
	MsgWelcomeBack    = "👋 Welcome back! Pick a section from the menu below."
	MsgMainMenu       = "🏠 Main menu. Pick a section:"
	MsgCancel         = "❌ Cancelled. Back to the main menu."
	MsgNothingActive  = "Nothing to cancel. Pick a section from the menu."
	MsgHelp           = "📖 FarmBot commands:\n\n/start - open the main menu\n/help - this message\n/roles - manage members and invitations\n/cancel - abandon the current operation\n/ask - question about using the bot\n\nUse the menu buttons for daily work: animals, milk, breeding, inventory, feed and finance."
	MsgAsk            = "💬 Send your question and the farm owner will get it."
	MsgAskForwarded   = "✅ Your question was forwarded. You'll hear back soon."
	MsgInternalError  = "❌ Something went wrong on our side. Please try again."
	MsgNoFarm         = "🏡 You don't belong to a farm yet. Create one with /start or redeem an invitation link."
	MsgViewerReadOnly = "🔒 Your role is viewer. You can browse records but not change them."

	MsgFarmNamePrompt = "🏡 What's the name of your farm?"
	MsgFarmCreated    = "✅ Farm \"%s\" is ready. You are its owner. Use the menu to add your first animal."

	// Animals
	MsgAnimalNamePrompt   = "🐮 What's the animal's name?"
	MsgAnimalGenderPrompt = "Pick the animal's sex:"
	MsgAnimalPhasePrompt  = "Pick the current lifecycle phase:"
	MsgAnimalTagPrompt    = "🏷 Tag number? Send it, or tap Skip."
	MsgAnimalBirthPrompt  = "📅 Birth date? Send it as YYYY-MM-DD, or tap Skip."
	MsgAnimalCreated      = "✅ %s has been added to the herd."
	MsgAnimalNotFound     = "❌ That animal is no longer in the herd."
	MsgAnimalRetired      = "✅ %s was removed from the active herd. Its records are kept."
	MsgAnimalPhaseSet     = "✅ %s is now in the %s phase."
	MsgAnimalListEmpty    = "🐮 No animals yet. Add the first one!"
	MsgAnimalListTitle    = "🐮 Your herd (%d total). Tap one for details:"
	MsgInvalidDate        = "❌ That doesn't look like a date. Use YYYY-MM-DD, e.g. 2026-03-10."
	MsgInvalidName        = "❌ The name can't be empty. Try again:"

	// Milk
	MsgMilkPickAnimal   = "🥛 Which animal was milked? (%d eligible)"
	MsgMilkNoEligible   = "🥛 No milkable animals found. Only active females can have milk records."
	MsgMilkQtyPrompt    = "How many liters? Decimal comma or point both work."
	MsgMilkDatePrompt   = "📅 For which day? Send YYYY-MM-DD or tap Today."
	MsgMilkRecorded     = "✅ Recorded %.1f L for %s on %s."
	MsgMilkDailyTotal      = "🥛 Total for %s: %.1f L"
	MsgMilkDailyTotalEmpty = "🥛 No milk records in that period."
	MsgInvalidQuantity  = "❌ Enter a positive number, e.g. 12.5 or 12,5."
	MsgStaleListButtons = "⚠️ That list was out of date. Here's a fresh one:"

	// Breeding
	MsgBreedPickDam    = "🐄 Which animal is being bred? Only females in estrus or postpartum are listed (%d eligible)."
	MsgBreedNoEligible = "🐄 No animals are currently eligible for breeding. Eligible means a female in estrus or postpartum."
	MsgBreedTypePrompt = "What kind of event?"
	MsgBreedSirePrompt = "🐂 Pick the sire, or tap Skip if unknown."
	MsgBreedDatePrompt = "📅 Event date? Send YYYY-MM-DD or tap Today."
	MsgBreedRecorded   = "✅ Breeding event saved for %s (%s on %s)."
	MsgBreedListEmpty  = "🐄 No breeding events recorded yet."
	MsgBreedListTitle  = "🐄 Recent breeding events:"

	// Inventory
	MsgInvNamePrompt     = "📦 What's the item called?"
	MsgInvCategoryPrompt = "🗂 Category? Send one, or tap Skip."
	MsgInvQtyPrompt      = "How much do you have? (number)"
	MsgInvUnitPrompt     = "📏 Unit of measure? Send one (kg, bags, liters...), or tap Skip to use \"unit\"."
	MsgInvCostPrompt     = "💵 Cost per unit? Send a number, or tap Skip."
	MsgInvCreated        = "✅ %s added to inventory: %.1f %s."
	MsgInvListEmpty      = "📦 Inventory is empty. Add the first item!"
	MsgInvListTitle      = "📦 Inventory (%d items). Tap one for details:"
	MsgInvNotFound       = "❌ That item is no longer in the inventory."
	MsgInvAdjustPrompt   = "Send the new quantity for %s (currently %.1f %s):"
	MsgInvAdjusted       = "✅ %s is now at %.1f %s."
	MsgInvDeleted        = "✅ %s removed from inventory."

	// Feed formulas
	MsgFeedNamePrompt      = "🌾 Name the feed formula:"
	MsgFeedComponentPrompt = "Add a component: send \"name percent\", e.g. \"corn 40\" or \"alfalfa 22,5\". Tap Done when finished."
	MsgFeedComponentAdded  = "➕ %s at %.1f%% (running total %.1f%%). Add another or tap Done."
	MsgFeedNoComponents    = "❌ A formula needs at least one component before you can finish."
	MsgFeedUnbalanced      = "❌ Proportions add up to %.1f%%, but they must total 100%% (±%.1f). Adjust the components and try Done again."
	MsgFeedInvalidComp     = "❌ Couldn't read that. Send \"name percent\", e.g. \"corn 40\"."
	MsgFeedCreated         = "✅ Formula \"%s\" saved with %d components."
	MsgFeedListEmpty       = "🌾 No feed formulas yet."
	MsgFeedListTitle       = "🌾 Feed formulas (%d). Tap one for details:"
	MsgFeedNotFound        = "❌ That formula no longer exists."
	MsgFeedDeleted         = "✅ Formula \"%s\" deleted."

	// Finance
	MsgFinKindPrompt   = "💰 Is this an expense or income?"
	MsgFinAmountPrompt = "How much? (number)"
	MsgFinNotePrompt   = "📝 A short note? Send one, or tap Skip."
	MsgFinDatePrompt   = "📅 For which day? Send YYYY-MM-DD or tap Today."
	MsgFinRecorded     = "✅ %s of %.2f recorded for %s."
	MsgFinSummary      = "💰 %s %d summary:\n\n📈 Income: %.2f\n📉 Expenses: %.2f\n➖➖➖➖➖\n💵 Net: %.2f"
	MsgFinReportEmpty  = "💰 No finance records in that period."

	// Roles and invitations
	MsgRolesDenied     = "🔒 Member management needs the owner or manager role. Your role is %s."
	MsgEditDenied      = "🔒 Changing records needs the owner, manager or worker role. Your role is %s."
	MsgRolesMenu       = "👥 Members of %s:"
	MsgRolePickNew     = "Pick the new role for %s:"
	MsgRoleChanged     = "✅ %s is now a %s."
	MsgRoleOwnerFixed  = "❌ The owner's role can't be changed."
	MsgMemberRemoved   = "✅ %s was removed from the farm."
	MsgInviteRolePick  = "✉️ What role should the invitation grant?"
	MsgInviteCreated   = "✉️ Invitation created!\n\nCode: %s\nRole: %s\nExpires: %s\n\nShare this link:\n%s\n\nOr forward this token; it keeps working even if the bot's link changes:\n%s"
	MsgRedeemPrompt    = "🔑 Send the invitation code you received:"
	MsgRedeemInvalid   = "❌ That code isn't valid (attempt %d of %d). Try again:"
	MsgRedeemGiveUp    = "❌ Too many failed attempts. Ask for a fresh invitation and start over."
	MsgRedeemUsed      = "❌ That invitation has already been used or expired."
	MsgRedeemOK        = "🎉 Welcome aboard! You joined %s as a %s."
	MsgRedeemOwnFarm   = "😊 You already belong to this farm."
	MsgRevokePrompt    = "🗑 Send the code of the invitation to revoke:"
	MsgRevokeInvalid   = "❌ No open invitation with that code (attempt %d of %d). Try again:"
	MsgRevokeGiveUp    = "❌ Too many failed attempts. Check the code and start over."
	MsgRevokeOK        = "✅ Invitation %s revoked."
	MsgInviteBadToken  = "❌ That invitation link is invalid or has expired."
	MsgAlreadyMember   = "😊 You already belong to a farm. Leave it before joining another."

	// Profile and premium
	MsgProfile        = "👤 %s\n➖➖➖➖➖➖➖➖\n🏡 Farm: %s\n🎖 Role: %s\n⭐️ Premium: %s\n📅 Joined: %s"
	MsgPremiumPlans   = "⭐️ Premium unlocks xlsx reports and unlimited members.\n\nMonthly: 49\nYearly: 490 (two months free)\n\nPick a plan:"
	MsgPaymentRef     = "💳 Transfer the amount and send a photo of the receipt.\n\nYour payment reference:\n%s\n\nInclude it in the transfer note."
	MsgReceiptWait    = "📸 Please send the receipt as a photo."
	MsgReceiptPending = "⏳ Receipt received. We'll confirm your premium shortly."
	MsgPremiumActive  = "🎉 Premium is active until %s. Enjoy!"
	MsgPremiumOnly    = "⭐️ Xlsx reports are a premium feature. Open your profile to upgrade."
	MsgPaymentDenied  = "❌ Your payment could not be verified. Contact support if you think this is a mistake."
)

// Reply-keyboard labels for the main menu.
const (
	BtnAnimals   = "🐮 Animals"
	BtnMilk      = "🥛 Milk"
	BtnBreeding  = "🐄 Breeding"
	BtnInventory = "📦 Inventory"
	BtnFeed      = "🌾 Feed"
	BtnFinance   = "💰 Finance"
	BtnProfile   = "👤 Profile"
	BtnCancel    = "❌ Cancel"
)

// Inline button labels.
const (
	BtnSkip      = "⏩ Skip"
	BtnToday     = "📅 Today"
	BtnDone      = "✅ Done"
	BtnPrevPage  = "⬅️"
	BtnNextPage  = "➡️"
	BtnBack      = "🔙 Back"
	BtnAddAnimal = "➕ Add animal"
	BtnAddItem   = "➕ Add item"
	BtnAddRecord = "➕ Record"
	BtnDelete    = "🗑 Delete"
)
