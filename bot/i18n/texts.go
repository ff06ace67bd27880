package i18n

// Key names a translatable message.
type Key string

const (
	Welcome             Key = "welcome"
	Help                Key = "help"
	Searching           Key = "searching"
	NoResults           Key = "no_results"
	SearchError         Key = "search_error"
	Results             Key = "results"
	SessionExpired      Key = "session_expired"
	PlatformUnsupported Key = "platform_unsupported"
	LinkUnsupported     Key = "link_unsupported"
	Downloading         Key = "downloading"
	DownloadFailed      Key = "download_failed"
	SendError           Key = "send_error"
	DownloadSuccess     Key = "download_success"
	QueueEmpty          Key = "queue_empty"
	CancelSearch        Key = "cancel_search"
	LangPrompt          Key = "lang_prompt"
	LangSelected        Key = "lang_selected"
	LangInvalid         Key = "lang_invalid"
	QueueAdded          Key = "queue_added"
	QueueStatus         Key = "queue_status"
	QueueList           Key = "queue_list"
	QueueListEmpty      Key = "queue_list_empty"
	Status              Key = "status"
)

const langPrompt = "🌐 Choisis ta langue / Choose your language / 选择你的语言 / Выберите язык / Elige tu idioma:"

// Languages lists the supported codes in keyboard order. The first one is the fallback.
var Languages = []string{"fr", "en", "zh", "ru", "es"}

// buttonNames label the /lang keyboard.
var buttonNames = map[string]string{
	"fr": "Français",
	"en": "English",
	"zh": "中文",
	"ru": "Русский",
	"es": "Español",
}

// displayNames fill {lang} in the confirmation.
var displayNames = map[string]string{
	"fr": "Français",
	"en": "English",
	"zh": "Mandarin",
	"ru": "Русский",
	"es": "Español",
}

var translations = map[string]map[Key][]string{
	"fr": {
		Welcome: {"🎵 Bienvenue sur MusicBot, ton compagnon musical ! 🎉\n\n" +
			"1️⃣ Envoie le nom d'un artiste ou d'une chanson (ex. : 'Tayc N'y pense plus').\n" +
			"2️⃣ Choisis une vidéo dans les résultats.\n" +
			"3️⃣ Télécharge l'audio en MP3 avec des métadonnées !\n\n" +
			"💡 Astuce : Sois précis dans ta recherche pour de meilleurs résultats !"},
		Help: {"🎵 Aide MusicBot 🎵\n\n" +
			"Je suis là pour t'aider à trouver et télécharger de la musique depuis YouTube ! Voici comment :\n" +
			"- /start : Lance le bot et découvre comment l'utiliser.\n" +
			"- /lang : Change la langue.\n" +
			"- /queue : Affiche la file d'attente.\n" +
			"- Envoie un nom d'artiste ou une chanson (ex. : 'Wizkid Essence').\n" +
			"- Choisis une vidéo dans les résultats avec les boutons.\n" +
			"- Les vidéos sélectionnées sont ajoutées à la file d'attente et téléchargées une par une.\n" +
			"- Utilise /cancel pour arrêter la session et nettoyer la conversation.\n\n" +
			"💡 Astuce : Utilise 'artiste - titre' pour des recherches précises."},
		Searching:           {"🔍 Analyse '{query}' en cours..."},
		NoResults:           {"😕 Aucun résultat trouvé. \n Essaye 'artiste - titre' 🎧 !"},
		SearchError:         {"❌ Problème lors de la recherche. Réessaie !"},
		Results:             {"🎵 Résultats pour : \"{query}\"\nPage {page} - Voici pour toi, {user} !"},
		SessionExpired:      {"😴 Session expirée. Relance une recherche !"},
		PlatformUnsupported: {"❌ Plateforme non reconnue."},
		LinkUnsupported:     {"❌ Ce lien n'est pas pris en charge."},
		Downloading:         {"📥 Téléchargement audio en cours : {title}..."},
		DownloadFailed:      {"❌ Échec du téléchargement pour {title}. Vérifie la vidéo ou réessaie."},
		SendError:           {"❌ Problème lors de l'envoi du fichier audio pour {title}."},
		DownloadSuccess:     {"✅ Audio téléchargé : {title} !"},
		QueueEmpty: {
			"🎉 File d'attente terminée ! Envie d'une autre chanson ?",
			"🔥 Tous les téléchargements sont terminés ! Relance une recherche !",
			"🎧 File vide. Quelle chanson veux-tu ensuite ?",
		},
		CancelSearch:   {"✅ Session terminée. Tous les messages ont été nettoyés. Relance une nouvelle recherche !"},
		LangPrompt:     {langPrompt},
		LangSelected:   {"✅ Langue sélectionnée : {lang}"},
		LangInvalid:    {"❌ Langue non valide. Choisis parmi : fr (Français), en (English), zh (Mandarin), ru (Русский), es (Español)"},
		QueueAdded:     {"✅ Vidéo ajoutée à la file d'attente : {title}"},
		QueueStatus:    {"📋 File d'attente : {count} vidéo(s) en attente."},
		QueueList:      {"📋 File d'attente ({count}) :\n{items}"},
		QueueListEmpty: {"📋 Ta file d'attente est vide."},
		Status:         {"📊 Fichiers en cache : {total}\nDemandés par toi : {user}\nEnvois : {sent}"},
	},
	"en": {
		Welcome: {"🎵 Welcome to MusicBot, your musical companion! 🎉\n\n" +
			"1️⃣ Send an artist or song name (e.g., 'Tayc N'y pense plus').\n" +
			"2️⃣ Choose a video from the results.\n" +
			"3️⃣ Download the audio as MP3 with metadata!\n\n" +
			"💡 Tip: Be specific with your search for better results!"},
		Help: {"🎵 MusicBot Help 🎵\n\n" +
			"I'm here to help you find and download music from YouTube! Here's how:\n" +
			"- /start: Start the bot and learn how to use it.\n" +
			"- /lang: Change the language.\n" +
			"- /queue: Show your download queue.\n" +
			"- Send an artist or song name (e.g., 'Wizkid Essence').\n" +
			"- Choose a video from the results using the buttons.\n" +
			"- Selected videos are added to the queue and downloaded one by one.\n" +
			"- Use /cancel to stop the session and clean up the chat.\n\n" +
			"💡 Tip: Use 'artist - title' for precise searches."},
		Searching:           {"🔍 Searching for '{query}'..."},
		NoResults:           {"😕 No results found. \n Try 'artist - title' 🎧!"},
		SearchError:         {"❌ Issue during search. Try again!"},
		Results:             {"🎵 Results for: \"{query}\"\nPage {page} - Here you go, {user}!"},
		SessionExpired:      {"😴 Session expired. Start a new search!"},
		PlatformUnsupported: {"❌ Unrecognized platform."},
		LinkUnsupported:     {"❌ This link is not supported."},
		Downloading:         {"📥 Downloading audio: {title}..."},
		DownloadFailed:      {"❌ Download failed for {title}. Check the link or try again."},
		SendError:           {"❌ Issue sending the audio file for {title}."},
		DownloadSuccess:     {"✅ Audio downloaded: {title}!"},
		QueueEmpty: {
			"🎉 Queue completed! Want another song?",
			"🔥 All downloads finished! Start a new search!",
			"🎧 Queue empty. What's the next song?",
		},
		CancelSearch:   {"✅ Session ended. All messages have been cleaned. Start a new search!"},
		LangPrompt:     {langPrompt},
		LangSelected:   {"✅ Language selected: {lang}"},
		LangInvalid:    {"❌ Invalid language. Choose from: fr (Français), en (English), zh (Mandarin), ru (Русский), es (Español)"},
		QueueAdded:     {"✅ Video added to queue: {title}"},
		QueueStatus:    {"📋 Queue: {count} video(s) pending."},
		QueueList:      {"📋 Queue ({count}):\n{items}"},
		QueueListEmpty: {"📋 Your queue is empty."},
		Status:         {"📊 Cached files: {total}\nRequested by you: {user}\nSent: {sent}"},
	},
	"zh": {
		Welcome: {"🎵 欢迎使用 MusicBot，你的音乐伙伴！🎉\n\n" +
			"1️⃣ 发送歌手或歌曲名称（例如：“Tayc N'y pense plus”）。\n" +
			"2️⃣ 从结果中选择一个视频。\n" +
			"3️⃣ 下载带有元数据的MP3音频！\n\n" +
			"💡 提示：搜索时尽量具体以获得更好的结果！"},
		Help: {"🎵 MusicBot 帮助 🎵\n\n" +
			"我可以帮助你从 YouTube 查找和下载音乐！操作方法如下：\n" +
			"- /start：启动机器人并了解如何使用。\n" +
			"- /lang：更改语言。\n" +
			"- /queue：查看下载队列。\n" +
			"- 发送歌手或歌曲名称（例如：“Wizkid Essence”）。\n" +
			"- 使用按钮从结果中选择一个视频。\n" +
			"- 所选视频将添加到队列并逐一下载。\n" +
			"- 使用 /cancel 停止会话并清理聊天。\n\n" +
			"💡 提示：使用“歌手 - 标题”进行精确搜索。"},
		Searching:           {"🔍 正在搜索 '{query}'..."},
		NoResults:           {"😕 未找到结果。\n 尝试“歌手 - 标题” 🎧！"},
		SearchError:         {"❌ 搜索时出现问题。请重试！"},
		Results:             {"🎵 搜索结果：“{query}”\n第 {page} 页 - 给你，{user}！"},
		SessionExpired:      {"😴 会话已过期。请重新开始搜索！"},
		PlatformUnsupported: {"❌ 不支持的平台。"},
		LinkUnsupported:     {"❌ 不支持此链接。"},
		Downloading:         {"📥 正在下载音频：{title}..."},
		DownloadFailed:      {"❌ 下载失败：{title}。请检查链接或重试。"},
		SendError:           {"❌ 发送音频文件时出现问题：{title}。"},
		DownloadSuccess:     {"✅ 音频已下载：{title}！"},
		QueueEmpty: {
			"🎉 队列已完成！想要另一首歌吗？",
			"🔥 所有下载已完成！开始新的搜索！",
			"🎧 队列为空。下一首歌是什么？",
		},
		CancelSearch:   {"✅ 会话已结束。所有消息已清理。开始新的搜索！"},
		LangPrompt:     {langPrompt},
		LangSelected:   {"✅ 已选择语言：{lang}"},
		LangInvalid:    {"❌ 无效语言。请从以下选项中选择：fr (Français), en (English), zh (Mandarin), ru (Русский), es (Español)"},
		QueueAdded:     {"✅ 视频已添加到队列：{title}"},
		QueueStatus:    {"📋 队列：{count} 个视频待处理。"},
		QueueList:      {"📋 队列（{count}）：\n{items}"},
		QueueListEmpty: {"📋 你的队列为空。"},
		Status:         {"📊 缓存文件：{total}\n你请求的：{user}\n已发送：{sent}"},
	},
	"ru": {
		Welcome: {"🎵 Добро пожаловать в MusicBot, ваш музыкальный помощник! 🎉\n\n" +
			"1️⃣ Отправьте имя исполнителя или песни (например, 'Tayc N'y pense plus').\n" +
			"2️⃣ Выберите видео из результатов.\n" +
			"3️⃣ Скачайте аудио в формате MP3 с метаданными!\n\n" +
			"💡 Совет: Будьте точны в поиске для лучших результатов!"},
		Help: {"🎵 Помощь по MusicBot 🎵\n\n" +
			"Я здесь, чтобы помочь вам находить и скачивать музыку с YouTube! Вот как это работает:\n" +
			"- /start: Запустите бот и узнайте, как им пользоваться.\n" +
			"- /lang: Изменить язык.\n" +
			"- /queue: Показать очередь загрузок.\n" +
			"- Отправьте имя исполнителя или песни (например, 'Wizkid Essence').\n" +
			"- Выберите видео из результатов с помощью кнопок.\n" +
			"- Выбранные видео добавляются в очередь и скачиваются по очереди.\n" +
			"- Используйте /cancel, чтобы остановить сессию и очистить чат.\n\n" +
			"💡 Совет: Используйте формат 'исполнитель - название' для точного поиска."},
		Searching:           {"🔍 Поиск '{query}'..."},
		NoResults:           {"😕 Результатов не найдено. \n Попробуйте 'исполнитель - название' 🎧!"},
		SearchError:         {"❌ Проблема при поиске. Попробуйте снова!"},
		Results:             {"🎵 Результаты для: \"{query}\"\nСтраница {page} - Вот, {user}!"},
		SessionExpired:      {"😴 Сессия истекла. Начните новый поиск!"},
		PlatformUnsupported: {"❌ Нераспознанная платформа."},
		LinkUnsupported:     {"❌ Эта ссылка не поддерживается."},
		Downloading:         {"📥 Загрузка аудио: {title}..."},
		DownloadFailed:      {"❌ Не удалось скачать: {title}. Проверьте ссылку или попробуйте снова."},
		SendError:           {"❌ Проблема при отправке аудиофайла: {title}."},
		DownloadSuccess:     {"✅ Аудио загружено: {title}!"},
		QueueEmpty: {
			"🎉 Очередь завершена! Хотите еще одну песню?",
			"🔥 Все загрузки завершены! Начните новый поиск!",
			"🎧 Очередь пуста. Какая следующая песня?",
		},
		CancelSearch:   {"✅ Сессия завершена. Все сообщения очищены. Начните новый поиск!"},
		LangPrompt:     {langPrompt},
		LangSelected:   {"✅ Язык выбран: {lang}"},
		LangInvalid:    {"❌ Недопустимый язык. Выберите из: fr (Français), en (English), zh (Mandarin), ru (Русский), es (Español)"},
		QueueAdded:     {"✅ Видео добавлено в очередь: {title}"},
		QueueStatus:    {"📋 Очередь: {count} видео в ожидании."},
		QueueList:      {"📋 Очередь ({count}):\n{items}"},
		QueueListEmpty: {"📋 Ваша очередь пуста."},
		Status:         {"📊 Файлов в кэше: {total}\nЗапрошено вами: {user}\nОтправлено: {sent}"},
	},
	"es": {
		Welcome: {"🎵 ¡Bienvenido a MusicBot, tu compañero musical! 🎉\n\n" +
			"1️⃣ Envía el nombre de un artista o canción (ej. 'Tayc N'y pense plus').\n" +
			"2️⃣ Elige un video de los resultados.\n" +
			"3️⃣ ¡Descarga el audio en MP3 con metadatos!\n\n" +
			"💡 Consejo: Sé específico en tu búsqueda para mejores resultados."},
		Help: {"🎵 Ayuda de MusicBot 🎵\n\n" +
			"¡Estoy aquí para ayudarte a encontrar y descargar música de YouTube! Así funciona:\n" +
			"- /start: Inicia el bot y descubre cómo usarlo.\n" +
			"- /lang: Cambiar el idioma.\n" +
			"- /queue: Muestra tu cola de descargas.\n" +
			"- Envía el nombre de un artista o canción (ej. 'Wizkid Essence').\n" +
			"- Elige un video de los resultados con los botones.\n" +
			"- Los videos seleccionados se añaden a la cola y se descargan uno por uno.\n" +
			"- Usa /cancel para detener la sesión y limpiar el chat.\n\n" +
			"💡 Consejo: Usa 'artista - título' para búsquedas precisas."},
		Searching:           {"🔍 Buscando '{query}'..."},
		NoResults:           {"😕 No se encontraron resultados. \n ¡Prueba 'artista - título' 🎧!"},
		SearchError:         {"❌ Problema durante la búsqueda. ¡Intenta de nuevo!"},
		Results:             {"🎵 Resultados para: \"{query}\"\nPágina {page} - ¡Aquí tienes, {user}!"},
		SessionExpired:      {"😴 Sesión expirada. ¡Inicia una nueva búsqueda!"},
		PlatformUnsupported: {"❌ Plataforma no reconocida."},
		LinkUnsupported:     {"❌ Este enlace no es compatible."},
		Downloading:         {"📥 Descargando audio: {title}..."},
		DownloadFailed:      {"❌ Falló la descarga para {title}. Verifica el enlace o intenta de nuevo."},
		SendError:           {"❌ Problema al enviar el archivo de audio para {title}."},
		DownloadSuccess:     {"✅ ¡Audio descargado: {title}!"},
		QueueEmpty: {
			"🎉 ¡Cola completada! ¿Quieres otra canción?",
			"🔥 ¡Todas las descargas terminadas! ¡Inicia una nueva búsqueda!",
			"🎧 Cola vacía. ¿Cuál es la próxima canción?",
		},
		CancelSearch:   {"✅ Sesión terminada. Todos los mensajes han sido limpiados. ¡Inicia una nueva búsqueda!"},
		LangPrompt:     {langPrompt},
		LangSelected:   {"✅ Idioma seleccionado: {lang}"},
		LangInvalid:    {"❌ Idioma no válido. Elige entre: fr (Français), en (English), zh (Mandarin), ru (Русский), es (Español)"},
		QueueAdded:     {"✅ Video añadido a la cola: {title}"},
		QueueStatus:    {"📋 Cola: {count} video(s) pendientes."},
		QueueList:      {"📋 Cola ({count}):\n{items}"},
		QueueListEmpty: {"📋 Tu cola está vacía."},
		Status:         {"📊 Archivos en caché: {total}\nSolicitados por ti: {user}\nEnviados: {sent}"},
	},
}
