package extractor

const systemPrompt = `You are a headhunting analyst that turns candidate material into a tagged talent profile.
Follow the tagging rules exactly and answer with a single JSON object matching the requested schema.`

// userPromptTemplate takes the current date, the communication notes and the
// resume text, in that order.
const userPromptTemplate = `你是资深猎头顾问，请根据以下材料为候选人打标。
今天的日期：%s。

【信息权重】
- 摘要：简历与沟通记录各占一半，概括核心价值与关键经历，100 字以内。
- 主观标签（职业动因、稳定性）：沟通记录 0.8，简历 0.2，两者冲突时以沟通记录为准。
- 客观标签（学历、年龄、公司）：简历 0.6，沟通记录 0.4。
- 个人信息（薪资、在聊机会）：只采信沟通记录。

【沟通记录】
%s

【简历】
%s

【字段说明】
- name：候选人姓名。
- company：公司经历，用简称加号连接，例如"华为+腾讯"。
- title：最近一份工作的职位。
- level：职级，优先从沟通记录中提取，如 P8、L9、T4、1-2；没有则写"未公开"。
- salary：年薪，如"80W"或"100-150W"；没有则写"未公开"。
- age_tag：优先用简历中的出生年月和今天的日期计算年龄；没有出生年月时按入学年份估算，写成"约35岁"。
- management：管理规模，如"10人"、"50-100人"或"无直接管理"。
- family：家庭状况，如"已婚有俩娃"、"单身"或"未知"。
- native：籍贯，如"湖南"；不清楚写"未知"。
- on_going：沟通记录中提到的面试、Offer 或在聊机会，格式"公司-岗位"；没有写"无"。
- loc：当前工作城市。
- target_loc：倾向的工作城市。
- tags.motivation：只能取以下之一：技术精进、管理晋升、自主独立、生活平衡、纯粹挑战。
- tags.stability：只能取以下之一：非常稳定(5年内无跳槽)、稳定(五年内2次)、不稳定(五年内3次+，或近段不足1年)。
- motivation_summary：一句话说明职业动因背后的具体原因，15 字以内。
- opportunity_attitude：只能取以下之一：迫切看、主动看、被动看、完全不看。
- summary：候选人摘要，100 字以内。
- experience_tags：从 变革经验、0-1经验、顶层设计经验、执行经验 中选出最相关的两个，用逗号分隔。
- conflict_report：说明简历与沟通记录冲突时如何取舍。

phone、edu、tags.intl 由系统从原文中提取，可以留空。

只输出下面结构的 JSON，不要输出任何其他内容，除上述可留空字段外所有字段都必须有值：
{
  "cn_date": "YYYY/MM/DD",
  "name": "",
  "company": "",
  "title": "",
  "level": "",
  "salary": "",
  "edu": "",
  "age_tag": "",
  "management": "",
  "family": "",
  "native": "",
  "on_going": "",
  "loc": "",
  "target_loc": "",
  "summary": "",
  "experience_tags": "",
  "tags": {"motivation": "", "stability": ""},
  "motivation_summary": "",
  "opportunity_attitude": "",
  "conflict_report": ""
}`
