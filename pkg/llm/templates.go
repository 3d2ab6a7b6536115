// Package llm provides the scene-based gateway to OpenAI-compatible chat
// models. A scene bundles a prompt template with a pre-declared model,
// temperature, top-p, and output-parsing policy; callers select a scene by
// name and supply template variables — they never encode model parameters
// inline.
package llm

// Prompt templates for the built-in scenes. Variables use {{name}} syntax
// and are substituted from the flow engine's template-variable map.

const transferHumanIntentPrompt = `你是一名HR智能助理。判断候选人是否明确要求转接人工HR。

职位:{{jobTitle}}
对话历史:
{{chatHistory}}

候选人最新消息:{{lastCandidateMessage}}

只有当候选人明确表达"转人工"、"找真人"、"不想和机器人聊"等诉求时才算要求转人工。
严格输出JSON:{"transfer": "YES"} 或 {"transfer": "NO"}`

const candidateEmotionPrompt = `你是一名HR智能助理。评估候选人最新消息的负面情绪等级。

对话历史:
{{chatHistory}}

候选人最新消息:{{lastCandidateMessage}}

评分标准:
0 = 情绪正常或积极
1 = 轻微不耐烦
2 = 明显不满,应礼貌收尾
3 = 强烈负面或敌意,需要人工介入

严格输出JSON:{"分数": 0, "原因": "简要说明"}`

const continueConversationPrompt = `你是一名HR智能助理。判断候选人是否愿意继续对话。

职位:{{jobTitle}}
对话历史:
{{chatHistory}}

候选人最新消息:{{lastCandidateMessage}}

严格输出JSON:{"willing": "YES"} 或 {"willing": "NO"}`

const candidateAskQuestionPrompt = `判断候选人最新消息中是否包含向HR提出的问题。

候选人最新消息:{{lastCandidateMessage}}

严格输出JSON:{"result": "YES"} 或 {"result": "NO"}`

const answerBasedOnKnowledgePrompt = `你是{{jobTitle}}职位的HR。根据知识库内容回答候选人的问题。

职位描述:{{jobDescription}}
职位要求:{{jobRequirement}}

知识库:
{{knowledgeBase}}

候选人问题:{{lastCandidateMessage}}

如果知识库中没有能回答该问题的内容,只输出 not_found。
否则直接输出面向候选人的回答,语气友好专业,不要编造知识库以外的信息。`

const answerWithoutKnowledgePrompt = `你是{{jobTitle}}职位的HR。候选人提出了一个知识库中没有答案的问题。

职位信息:{{jobInfo}}
候选人问题:{{lastCandidateMessage}}

给出一个得体的回复:如果问题涉及职位信息中已有的内容可以直接回答,
否则礼貌说明稍后会有专人跟进,不要编造。
严格输出JSON:{"answer": "回复内容", "issue_class": "问题分类"}`

const casualConversationPrompt = `你是{{jobTitle}}职位的HR,正在和候选人轻松地聊天。

对话历史:
{{chatHistory}}

候选人最新消息:{{lastCandidateMessage}}

自然地回应候选人,并适当引导话题回到职位沟通上。
严格输出JSON:{"newReply": "回复内容"}`

const highEQResponsePrompt = `你是一名高情商的HR。候选人目前意愿不高或情绪不佳,需要礼貌地收尾。

对话历史:
{{chatHistory}}

候选人最新消息:{{lastCandidateMessage}}

输出一句温暖、不施压的结束语,表达随时欢迎再聊。
严格输出JSON:{"newReply": "回复内容"}`

const resumeConversationPrompt = `你是{{jobTitle}}职位的HR。候选人已有一段时间未回复。

上次HR消息:{{lastHRMessage}}

输出一句自然的重新开启对话的消息,简短、友好、不催促。直接输出文本。`

const relevanceReplyPrompt = `你是一名HR。当前正在向候选人提问,判断候选人的回答与问题的关系。

当前问题:{{currentQuestion}}
候选人回答:{{lastCandidateMessage}}

分类:
A = 候选人明确拒绝回答
B = 回答与问题相关
C = 回答与问题无关(跑题)
D = 回答包含辱骂或敏感内容
E = 无法判断

严格输出JSON:{"result": "A"}(A/B/C/D/E 之一)`

const replyMatchRequirementPrompt = `你是一名HR。评估候选人的回答是否满足该问题的考核标准。

当前问题:{{currentQuestion}}
考核标准:{{currentQuestionRequirement}}
候选人回答:{{lastCandidateMessage}}

判定:
YES = 回答满足考核标准
NO = 回答不满足考核标准
QUESTION = 候选人没有回答,而是反问了HR一个问题

严格输出JSON:{"result": "YES"}(YES/NO/QUESTION 之一)`

const communicationWillingnessPrompt = `你是一名HR。当前向候选人提了一个信息收集问题,判断候选人是否配合回答。

当前问题:{{currentQuestion}}
候选人回答:{{lastCandidateMessage}}

YES = 候选人正面回应了问题
NO = 候选人拒绝或明显不配合

严格输出JSON:{"result": "YES"} 或 {"result": "NO"}`
