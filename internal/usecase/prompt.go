package usecase

import "fmt"

// judgePrompt is the only structured contract the oracle is held to: the
// reply's first token must be YES or NO, optionally followed by one
// justification line. It is enforced purely by this text.
const judgePrompt = `Lets play a game. You have been hired to spend all day reading tweets about a topic. Your job is to make a selection of the most important, relevant or interesting tweets for your boss.
Your boss is interested in: %s.
He already knows what any non-technical person knows about the topic, so ignore tweets that merely inform people the technology exists. The hype is real all over social media, so everyone is talking about it. Unless a tweet is worth notifying your boss about, don't do so.

Answer with
X
Y
where X is "YES" or "NO" and Y is the reason you think it is important, relevant or interesting to your boss. YES if the tweet is worth notifying your boss about, NO if it is not. Only reply with X and Y. Do not write anything more.

Example of a tweet worth sharing:
Tweet: We may see large language models replacing many trivial classification models in the near future. Here is why...
Answer
YES
Contains interesting information about replacing classification models with large language models.

Example of a tweet not worth sharing:
Tweet: This chatbot is a great tool for generating text. I just told it to do my homework and it did.
Answer
NO
Contains no important, relevant or interesting information for your boss.

The game starts now and below is the first tweet that you have to decide if it is worth notifying your boss about or not.

Tweet: %s`

// BuildPrompt embeds the candidate body verbatim into the judge's fixed
// instruction template.
func BuildPrompt(interests, content string) string {
	return fmt.Sprintf(judgePrompt, interests, content)
}
