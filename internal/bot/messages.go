// ABOUTME: User-facing message texts for the bot dialogs
// ABOUTME: HTML parse mode; disclaimer footer on every answer
package bot

const welcomeMessage = "👋 <b>Привет! Я LegalBot</b> — ассистент по вопросам недвижимости.\n\n" +
	"🧭 <b>Чем могу помочь:</b>\n" +
	"• Покупка и продажа жилья\n" +
	"• Аренда и найм\n" +
	"• Ипотека, маткапитал, субсидии\n" +
	"• Регистрация прав, Росреестр, ЭЦП\n" +
	"• Земля, строительство, долевое участие\n\n" +
	"📌 <b>Как задать вопрос:</b>\n" +
	"• Просто опиши ситуацию или задай вопрос текстом\n" +
	"• Загляни в /help за примерами\n\n" +
	"<i>Ответы носят информационный характер и не являются юридической консультацией.</i>"

const helpMessage = "Как задать вопрос:\n" +
	"• Какие документы нужны для продажи квартиры?\n" +
	"• Чем отличается аренда и найм?\n\n" +
	"Подсказки:\n" +
	"— Пиши конкретно и добавляй детали (цель, статус объекта, ипотека и т. д.).\n" +
	"— Я всегда добавлю «Правовые основания», если они есть в базе."

const consentPrompt = "Чтобы продолжить, подтвердите согласие на обработку персональных данных."

const consentRequired = "Чтобы продолжить, подтвердите согласие, нажав кнопку «Я даю своё согласие…» в /start."

const consentGranted = "Согласие получено. Спасибо!"

const consentDeclined = "Без согласия мы не можем продолжить работу."

const consentDeclinedMessage = "Жаль, что мы не сможем продолжить. Если передумаешь, вернись в /start."

const replyAskName = "📝 <b>Запрос консультации</b>\nПожалуйста, укажи своё имя и фамилию."

const replyAskContact = "Как с тобой связаться? Оставь телефон, email или ник в мессенджере."

const replyAskRequest = "Кратко опиши, какая помощь нужна."

const consultationSaved = "Спасибо! Заявка на консультацию сохранена. 👌\n" +
	"Наш специалист свяжется с тобой по указанным контактам."

const answerDisclaimer = "<i>Ответ носит информационный характер и не является юридической консультацией.</i>"
