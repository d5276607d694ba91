package constant

// User-facing bot replies.
const (
	MessageStart = "Send me a PDF and I will build quiz questions from it.\n\n" +
		"After the document is processed use the buttons:\n" +
		"MCQ / FFQ - generate a multiple-choice or free-form question on a topic\n" +
		"Explain - show the model's reasoning for the last question\n" +
		"Save - keep the last question\n" +
		"Compile - get all saved questions as a file\n\n" +
		"/sources shows the passages the last question was based on, /cancel starts over."

	MessageFileDownloaded   = "File downloaded. Processing to set up..."
	MessageDocumentReady    = "Document prepared. Ready to process topics."
	MessageDocumentFailed   = "Could not read this PDF. Please try another file."
	MessageNotPDF           = "Please send the document as a PDF file."
	MessageSendDocument     = "Send me a PDF file to start."
	MessageChooseAction     = "Choose an action from the menu."
	MessageEnterMCQTopic    = "Enter the topic for the MCQ"
	MessageEnterFFQTopic    = "Enter the topic for the FFQ"
	MessageQuestionSaved    = "Question added to buffer."
	MessageGenerationFailed = "Could not generate a valid question on this topic. Try rephrasing it."
	MessageCancelled        = "Session cleared. Send a new PDF whenever you are ready."
	MessageEmptyTopic       = "The topic cannot be empty."

	WarnProcessPDFFirst   = "You must process a PDF file first"
	WarnGenerateFirst     = "You need to generate a question first!"
	WarnSaveBeforeCompile = "You need to generate and save questions before compiling!"
)

// Inline keyboard callback data.
const (
	CallbackMCQ     = "MCQ"
	CallbackFFQ     = "FFQ"
	CallbackExplain = "EXPLAIN"
	CallbackCompile = "COMPILE"
	CallbackSave    = "SAVE"
)
