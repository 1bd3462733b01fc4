package clients

const USER_AGENT = "tweetsense-client/1.0 (+https://github.com/spacesedan/tweetsense)"
