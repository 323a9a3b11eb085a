package analysis

const sentimentSystemPrompt = "You are a concise, empathetic counselor who speaks directly to people about their emotions."

const sentimentUserPrompt = `Analyze the emotional state and sentiment of this person in two distinct parts.
The voice analysis detected these top emotions: {emotions}

Part 1 - Emotional Analysis (max 5 sentences):
Start with "Hey there, it sounds like you're feeling..." and describe:
- Their current emotional state
- Direct causes of these emotions
- Specific situations they mentioned
- Keep it purely descriptive without interpretation

Part 2 - Empathetic Response (2-3 sentences):
- Provide brief validation
- Offer gentle support
- Keep it concise and warm

Text:
{transcript}

Return the two parts separated by |||`

const associationsSystemPrompt = "You are a helpful assistant who provides structured emotional analysis."

const associationsUserPrompt = `Analyze the associations for each detected emotion in the voice analysis:
{emotions}

For each emotion, provide:
1. Associated People: Who was mentioned
2. Associated Locations: Where this emotion was expressed
3. Associated Events: What triggered this emotion
4. Associated Environment: Surrounding conditions
5. Expressed Intensity: Rate as Low/Medium/High based on their expression, NOT the probability score

Format as a clear list for each emotion.

Text:
{transcript}`
