package openai

// captionPrompt asks the vision model to describe a figure from a product
// manual so the description can stand in for the image during retrieval.
// Responses come back in the model's default language; the answering prompt
// downstream handles language matching, so no language is forced here.
const captionPrompt = `This is a figure or illustration from a product manual. ` +
	`Describe in detail what the image shows, so that someone who cannot see it ` +
	`understands it. Use technical terms and part names where they apply. ` +
	`If the image carries no meaningful content (decoration, logo, blank), reply ` +
	`with an empty response.`
